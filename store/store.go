// Package store 交易流水的存储层，对外只暴露 Store 接口
package store

import (
	"context"
	"errors"
	"time"

	"kas/models"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// DateRange 日期范围，首尾均包含
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains 判断 t 是否在范围内
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DayRange 以整天为粒度构造范围：start 当天 00:00:00 到 end 当天 23:59:59.999999999
func DayRange(start, end time.Time) DateRange {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	return DateRange{Start: s, End: e.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// MonthRange now 所在月份的完整范围
func MonthRange(now time.Time) DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DayRange(first, first.AddDate(0, 1, -1))
}

// Store 交易存储能力集合
type Store interface {
	// List 按日期倒序返回交易，r 为 nil 时不过滤
	List(ctx context.Context, r *DateRange) ([]models.Transaction, error)
	Get(ctx context.Context, id uint) (*models.Transaction, error)
	// Create 写入交易，由存储分配 ID 和 CreatedAt
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, id uint, f models.TransactionFields) (*models.Transaction, error)
	Delete(ctx context.Context, id uint) (int64, error)
	// DeleteMatching 删除描述完全相同且类别一致的全部交易
	DeleteMatching(ctx context.Context, description string, category models.Category) (int64, error)
	Close() error
}

// DemoTransactions 演示数据，内存模式下可选加载
func DemoTransactions() []models.Transaction {
	return []models.Transaction{
		{Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Description: "Salary", Category: models.CategoryIncome, Amount: 5000},
		{Date: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), Description: "Groceries", Category: models.CategoryExpense, Amount: 200},
		{Date: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), Description: "Internet Bill", Category: models.CategoryExpense, Amount: 50},
	}
}
