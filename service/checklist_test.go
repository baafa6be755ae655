package service

import (
	"context"
	"testing"
	"time"

	"kas/config"
	"kas/models"
	"kas/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDues = config.DuesConfig{Amount: 40000, Members: []string{"Achmad", "Budi", "Citra"}}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestChecklistService_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Date(2025, 9, 10, 14, 30, 0, 0, time.UTC)
	s := NewChecklistService(st, testDues, fixedNow(now))

	tx, created, err := s.Check(ctx, "Achmad", 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Iuran Achmad - Minggu 1", tx.Description)
	assert.Equal(t, models.CategoryIncome, tx.Category)
	assert.Equal(t, int64(40000), tx.Amount)
	assert.Equal(t, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), tx.Date)

	c, err := s.Build(ctx)
	require.NoError(t, err)
	assert.True(t, c.Checked("Achmad", 1))
	assert.Equal(t, int64(40000), c.ChecklistIncome)

	n, err := s.Uncheck(ctx, "Achmad", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	c, err = s.Build(ctx)
	require.NoError(t, err)
	assert.False(t, c.Checked("Achmad", 1))
	_, err = st.Get(ctx, tx.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChecklistService_CheckIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := NewChecklistService(st, testDues, fixedNow(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)))

	first, created, err := s.Check(ctx, "Budi", 2)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.Check(ctx, "Budi", 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	all, err := st.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestChecklistService_CheckIgnoresWrongAmountRow(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(models.Transaction{
		Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Description: "Iuran Citra - Minggu 1",
		Category: models.CategoryIncome, Amount: 35000,
	})
	s := NewChecklistService(st, testDues, fixedNow(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)))

	// 金额不符的旧记录不算已勾选，所以会新增一条
	_, created, err := s.Check(ctx, "Citra", 1)
	require.NoError(t, err)
	assert.True(t, created)

	// 取消时不比较金额，两条都会被删除
	n, err := s.Uncheck(ctx, "Citra", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestChecklistService_NonCanonicalRowNeverChecks(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(models.Transaction{
		Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Description: "Iuran Achmad - Minggu 01",
		Category: models.CategoryIncome, Amount: 40000,
	})
	s := NewChecklistService(st, testDues, fixedNow(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)))

	c, err := s.Build(ctx)
	require.NoError(t, err)
	assert.False(t, c.Checked("Achmad", 1))

	// 非规范描述不算已缴，勾选会写入一条规范记录
	_, created, err := s.Check(ctx, "Achmad", 1)
	require.NoError(t, err)
	assert.True(t, created)

	c, err = s.Build(ctx)
	require.NoError(t, err)
	assert.True(t, c.Checked("Achmad", 1))

	n, err := s.Uncheck(ctx, "Achmad", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	c, err = s.Build(ctx)
	require.NoError(t, err)
	assert.False(t, c.Checked("Achmad", 1))
}

func TestChecklistService_Validation(t *testing.T) {
	ctx := context.Background()
	// 2025-03 打卡表有 6 周
	s := NewChecklistService(store.NewMemoryStore(), testDues, fixedNow(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))

	_, _, err := s.Check(ctx, "Dodi", 1)
	assert.ErrorIs(t, err, ErrInvalidMember)

	_, _, err = s.Check(ctx, "Achmad", 0)
	assert.ErrorIs(t, err, ErrInvalidWeek)

	_, _, err = s.Check(ctx, "Achmad", 7)
	assert.ErrorIs(t, err, ErrInvalidWeek)

	_, created, err := s.Check(ctx, "Achmad", 6)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = s.Uncheck(ctx, "Achmad", 0)
	assert.ErrorIs(t, err, ErrInvalidWeek)

	_, err = s.Uncheck(ctx, "Budi", 1)
	assert.ErrorIs(t, err, ErrNotChecked)
}

func TestReporter_Monthly(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(store.DemoTransactions()...)
	require.NoError(t, st.Create(ctx, &models.Transaction{
		Date: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), Description: "Iuran Achmad - Minggu 1",
		Category: models.CategoryIncome, Amount: 40000,
	}))

	r := NewReporter(st, testDues, fixedNow(time.Date(2025, 9, 20, 9, 0, 0, 0, time.UTC)))

	weekly, err := r.Weekly(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5000-200-50), weekly.TotalBalance)

	rep, err := r.Monthly(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-09", rep.Month)
	assert.Equal(t, weekly, rep.Weekly)
	assert.Len(t, rep.Transactions, 3)
	assert.Equal(t, 5, rep.SummaryWeeks)
	assert.Equal(t, 5, rep.ChecklistWeeks)
	// 打卡表扫描全部流水，不限当月
	assert.True(t, rep.Checklist.Checked("Achmad", 1))

	mar, err := r.MonthlyAt(ctx, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 5, mar.SummaryWeeks)
	assert.Equal(t, 6, mar.ChecklistWeeks)
	assert.Len(t, mar.Weekly.WeeklyData, 5)
	assert.Equal(t, 6, mar.Checklist.Weeks)
}
