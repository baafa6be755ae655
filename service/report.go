package service

import (
	"context"
	"time"

	"kas/config"
	"kas/models"
	"kas/store"
	"kas/summary"

	"golang.org/x/sync/errgroup"
)

// MonthlyReport 某月的周汇总 + 会费打卡表
// ChecklistWeeks 与 SummaryWeeks 算法不同，部分月份两者不相等
type MonthlyReport struct {
	Month          string                `json:"month" example:"2025-09"`
	Weekly         summary.WeeklySummary `json:"weekly"`
	Checklist      summary.Checklist     `json:"checklist"`
	SummaryWeeks   int                   `json:"summary_weeks" example:"5"`
	ChecklistWeeks int                   `json:"checklist_weeks" example:"5"`
	Transactions   []models.Transaction  `json:"-"`
}

// Reporter 汇总读取
type Reporter struct {
	store store.Store
	dues  config.DuesConfig
	now   func() time.Time
}

// NewReporter 创建汇总服务，now 为 nil 时使用 time.Now
func NewReporter(st store.Store, dues config.DuesConfig, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{store: st, dues: dues, now: now}
}

// Now 当前时间
func (r *Reporter) Now() time.Time {
	return r.now()
}

// Weekly 当月周汇总
func (r *Reporter) Weekly(ctx context.Context) (summary.WeeklySummary, error) {
	now := r.now()
	rng := store.MonthRange(now)
	txs, err := r.store.List(ctx, &rng)
	if err != nil {
		return summary.WeeklySummary{}, err
	}
	return summary.BuildWeekly(txs, now), nil
}

// Monthly 当月报表
func (r *Reporter) Monthly(ctx context.Context) (*MonthlyReport, error) {
	return r.MonthlyAt(ctx, r.now())
}

// MonthlyAt at 所在月份的报表，当月流水和全部流水并发读取
func (r *Reporter) MonthlyAt(ctx context.Context, at time.Time) (*MonthlyReport, error) {
	var monthTxs, allTxs []models.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rng := store.MonthRange(at)
		var err error
		monthTxs, err = r.store.List(gctx, &rng)
		return err
	})
	g.Go(func() error {
		var err error
		allTxs, err = r.store.List(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Month:          at.Format("2006-01"),
		Weekly:         summary.BuildWeekly(monthTxs, at),
		Checklist:      summary.BuildChecklist(allTxs, r.dues.Members, r.dues.Amount, at),
		SummaryWeeks:   summary.WeeksInMonth(at),
		ChecklistWeeks: summary.ChecklistWeeks(at),
		Transactions:   monthTxs,
	}, nil
}
