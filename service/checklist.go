package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kas/config"
	"kas/models"
	"kas/store"
	"kas/summary"
)

var (
	ErrInvalidMember = errors.New("成员不在名单内")
	ErrInvalidWeek   = errors.New("周次超出范围")
	ErrNotChecked    = errors.New("没有找到对应的会费记录")
)

// ChecklistService 会费打卡：勾选写入一条会费收入，取消则删除匹配的收入
// 打卡表本身不落库，每次都从全部交易重新推导
type ChecklistService struct {
	store store.Store
	dues  config.DuesConfig
	now   func() time.Time
}

// NewChecklistService 创建打卡服务，now 为 nil 时使用 time.Now
func NewChecklistService(st store.Store, dues config.DuesConfig, now func() time.Time) *ChecklistService {
	if now == nil {
		now = time.Now
	}
	return &ChecklistService{store: st, dues: dues, now: now}
}

// Build 推导当月打卡表
func (s *ChecklistService) Build(ctx context.Context) (summary.Checklist, error) {
	all, err := s.store.List(ctx, nil)
	if err != nil {
		return summary.Checklist{}, err
	}
	return summary.BuildChecklist(all, s.dues.Members, s.dues.Amount, s.now()), nil
}

func (s *ChecklistService) validate(name string, week int) error {
	if !summary.IsMember(s.dues.Members, name) {
		return fmt.Errorf("%w: %s", ErrInvalidMember, name)
	}
	if weeks := summary.ChecklistWeeks(s.now()); week < 1 || week > weeks {
		return fmt.Errorf("%w: %d (1-%d)", ErrInvalidWeek, week, weeks)
	}
	return nil
}

// Check 勾选 (name, week)
// 已存在有效会费记录时直接返回该记录，created 为 false，不重复写入
func (s *ChecklistService) Check(ctx context.Context, name string, week int) (tx *models.Transaction, created bool, err error) {
	if err := s.validate(name, week); err != nil {
		return nil, false, err
	}

	all, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	for i := range all {
		if summary.IsDuesPayment(all[i], name, week, s.dues.Amount) {
			return &all[i], false, nil
		}
	}

	now := s.now()
	tx = &models.Transaction{
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Description: summary.DuesDescription(name, week),
		Category:    models.CategoryIncome,
		Amount:      s.dues.Amount,
	}
	if err := s.store.Create(ctx, tx); err != nil {
		return nil, false, err
	}
	return tx, true, nil
}

// Uncheck 取消勾选，删除描述匹配的全部 Income 记录（不比较金额）
func (s *ChecklistService) Uncheck(ctx context.Context, name string, week int) (int64, error) {
	if week < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	n, err := s.store.DeleteMatching(ctx, summary.DuesDescription(name, week), models.CategoryIncome)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotChecked
	}
	return n, nil
}
