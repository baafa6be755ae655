package summary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kas/models"
)

// 名字取 "Iuran " 之后到第一个 "-" 之前的最短文本
var duesPattern = regexp.MustCompile(`^Iuran ([^-]+?) - Minggu ([1-9][0-9]*)$`)

// DuesDescription 会费交易的描述约定
func DuesDescription(name string, week int) string {
	return fmt.Sprintf("Iuran %s - Minggu %d", name, week)
}

// ParseDuesDescription 从描述中解析成员名和周次，不符合约定时 ok 为 false
// 只接受与 DuesDescription(name, week) 逐字节相同的描述，保证能被 DeleteMatching 删除
func ParseDuesDescription(desc string) (name string, week int, ok bool) {
	m := duesPattern.FindStringSubmatch(desc)
	if m == nil {
		return "", 0, false
	}
	week, err := strconv.Atoi(m[2])
	if err != nil || week < 1 {
		return "", 0, false
	}
	name = m[1]
	if strings.TrimSpace(name) != name || DuesDescription(name, week) != desc {
		return "", 0, false
	}
	return name, week, true
}

// FirstWeekdayOffset 当月 1 日是星期几（周日为 0）
func FirstWeekdayOffset(now time.Time) int {
	start, _ := MonthWindow(now)
	return int(start.Weekday())
}

// ChecklistWeeks 打卡表的周数 ceil((daysInMonth + 1 日星期偏移) / 7)
// 与 WeeksInMonth 的算法不同，两者在部分月份不一致（例如 2025 年 3 月为 6 和 5）
func ChecklistWeeks(now time.Time) int {
	return (DaysInMonth(now) + FirstWeekdayOffset(now) + 6) / 7
}

// Checklist 会费打卡表，完全由交易流水推导，不单独存储
type Checklist struct {
	Members         []string                `json:"members"`
	Weeks           int                     `json:"weeks" example:"5"`
	DuesAmount      int64                   `json:"dues_amount" example:"40000"`
	Grid            map[string]map[int]bool `json:"grid"`
	CheckedCount    int                     `json:"checked_count" example:"1"`
	ChecklistIncome int64                   `json:"checklist_income" example:"40000"`
}

// Checked 查询单元格状态，越界返回 false
func (c Checklist) Checked(name string, week int) bool {
	return c.Grid[name][week]
}

// IsMember 判断是否在名单内
func IsMember(members []string, name string) bool {
	for _, m := range members {
		if m == name {
			return true
		}
	}
	return false
}

// IsDuesPayment 判断一条交易能否勾选打卡表中的 (name, week)
func IsDuesPayment(tx models.Transaction, name string, week int, duesAmount int64) bool {
	n, w, ok := ParseDuesDescription(tx.Description)
	return ok && n == name && w == week &&
		tx.Category == models.CategoryIncome && tx.Amount == duesAmount
}

// BuildChecklist 扫描全部交易生成 名单 × 周次 的打卡表
// 名单外的名字、越界周次、非 Income 或金额不等于会费的记录都被忽略
func BuildChecklist(txs []models.Transaction, members []string, duesAmount int64, now time.Time) Checklist {
	weeks := ChecklistWeeks(now)

	grid := make(map[string]map[int]bool, len(members))
	for _, name := range members {
		row := make(map[int]bool, weeks)
		for w := 1; w <= weeks; w++ {
			row[w] = false
		}
		grid[name] = row
	}

	for _, tx := range txs {
		if tx.Category != models.CategoryIncome || tx.Amount != duesAmount {
			continue
		}
		name, week, ok := ParseDuesDescription(tx.Description)
		if !ok || week > weeks {
			continue
		}
		row, ok := grid[name]
		if !ok {
			continue
		}
		row[week] = true
	}

	checked := 0
	for _, row := range grid {
		for _, v := range row {
			if v {
				checked++
			}
		}
	}

	return Checklist{
		Members:         append([]string(nil), members...),
		Weeks:           weeks,
		DuesAmount:      duesAmount,
		Grid:            grid,
		CheckedCount:    checked,
		ChecklistIncome: int64(checked) * duesAmount,
	}
}
