// Package summary 根据交易流水计算月度周汇总和会费打卡表，所有函数均为纯函数
package summary

import (
	"fmt"
	"time"

	"kas/models"
)

// WeeklyBucket 单周收支汇总，字段名与前端图表保持一致
type WeeklyBucket struct {
	Week    string `json:"week" example:"Week 1"`
	Income  int64  `json:"Income" example:"5000"`
	Expense int64  `json:"Expense" example:"200"`
}

// WeeklySummary 当月周汇总
type WeeklySummary struct {
	TotalBalance int64          `json:"total_balance" example:"4800"`
	WeeklyData   []WeeklyBucket `json:"weekly_data"`
}

// MonthWindow 返回 now 所在月份的起止时间（含首尾两天的全天）
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// DaysInMonth 当月天数
func DaysInMonth(now time.Time) int {
	_, end := MonthWindow(now)
	return end.Day()
}

// WeekOfMonth 按固定 7 天分桶：1-7 日为第 1 周，8-14 日为第 2 周，与星期几无关
func WeekOfMonth(day int) int {
	return (day + 6) / 7
}

// WeeksInMonth 周汇总的周数 ceil(daysInMonth / 7)
func WeeksInMonth(now time.Time) int {
	return WeekOfMonth(DaysInMonth(now))
}

// WeekLabel 周标签，例如 "Week 3"
func WeekLabel(week int) string {
	return fmt.Sprintf("Week %d", week)
}

// InMonth 判断 t 是否落在 now 所在月份（按 now 的时区取日期）
func InMonth(t, now time.Time) bool {
	start, end := MonthWindow(now)
	t = t.In(now.Location())
	return !t.Before(start) && !t.After(end)
}

// BuildWeekly 计算当月余额与按周收支
// 不在当月的交易会被忽略；非 Income 的记录一律按支出计
func BuildWeekly(txs []models.Transaction, now time.Time) WeeklySummary {
	weeks := WeeksInMonth(now)
	buckets := make([]WeeklyBucket, weeks)
	for i := range buckets {
		buckets[i].Week = WeekLabel(i + 1)
	}

	var balance int64
	for _, tx := range txs {
		if !InMonth(tx.Date, now) {
			continue
		}
		b := &buckets[WeekOfMonth(tx.Date.In(now.Location()).Day())-1]
		if tx.Category == models.CategoryIncome {
			balance += tx.Amount
			b.Income += tx.Amount
		} else {
			balance -= tx.Amount
			b.Expense += tx.Amount
		}
	}

	return WeeklySummary{
		TotalBalance: balance,
		WeeklyData:   buckets,
	}
}
