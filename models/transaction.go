package models

import (
	"time"
)

// Category 交易类别，只允许 Income / Expense
type Category string

const (
	CategoryIncome  Category = "Income"
	CategoryExpense Category = "Expense"
)

// Valid 判断类别是否合法
func (c Category) Valid() bool {
	return c == CategoryIncome || c == CategoryExpense
}

// Transaction 交易记录模型
// 列名沿用原有 transactions 表（tanggal / nama_keperluan / kategori / nominal），可直接挂载旧库
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Date        time.Time `json:"date" gorm:"column:tanggal;not null;index"`
	Description string    `json:"description" gorm:"column:nama_keperluan;type:text;not null"`
	Category    Category  `json:"category" gorm:"column:kategori;type:text;not null"`
	Amount      int64     `json:"amount" gorm:"column:nominal;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;not null"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFields 可修改字段（id 和 created_at 除外）
type TransactionFields struct {
	Date        time.Time
	Description string
	Category    Category
	Amount      int64
}

// Apply 用 fields 覆盖记录的可修改字段
func (t *Transaction) Apply(f TransactionFields) {
	t.Date = f.Date
	t.Description = f.Description
	t.Category = f.Category
	t.Amount = f.Amount
}

// GetCategories 获取所有交易类别
func GetCategories() []Category {
	return []Category{CategoryIncome, CategoryExpense}
}
