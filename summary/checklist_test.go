package summary

import (
	"testing"
	"time"

	"kas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roster = []string{"Achmad", "Budi", "Citra"}

const dues int64 = 40000

func TestDuesDescription(t *testing.T) {
	assert.Equal(t, "Iuran Achmad - Minggu 1", DuesDescription("Achmad", 1))
}

func TestParseDuesDescription(t *testing.T) {
	name, week, ok := ParseDuesDescription("Iuran Achmad - Minggu 1")
	require.True(t, ok)
	assert.Equal(t, "Achmad", name)
	assert.Equal(t, 1, week)

	name, week, ok = ParseDuesDescription("Iuran Siti Aminah - Minggu 12")
	require.True(t, ok)
	assert.Equal(t, "Siti Aminah", name)
	assert.Equal(t, 12, week)

	for _, bad := range []string{
		"iuran Achmad - Minggu 1",
		"Iuran Achmad - minggu 1",
		"Iuran Achmad Minggu 1",
		"Iuran Achmad - Minggu 0",
		"Iuran Achmad - Minggu -1",
		"Iuran Achmad - Minggu x",
		"Iuran - Minggu 1",
		"Salary",
		"",
		"Iuran Achmad - Minggu 01",
		"Iuran  Achmad - Minggu 1",
		"Iuran Achmad  -  Minggu 1",
		" Iuran Achmad - Minggu 1",
		"Iuran Achmad - Minggu 1 ",
		"Iuran Achmad -Minggu 1",
		"Iuran A - B - Minggu 2",
		"Iuran Jean-Luc - Minggu 2",
	} {
		_, _, ok := ParseDuesDescription(bad)
		assert.False(t, ok, bad)
	}
}

// 能被解析的描述一定是规范形式
func TestParseDuesDescription_Canonical(t *testing.T) {
	for _, desc := range []string{
		"Iuran Achmad - Minggu 1",
		"Iuran Siti Aminah - Minggu 5",
		"Iuran Achmad - Minggu 01",
		"Iuran A - B - Minggu 2",
		"Iuran\tAchmad - Minggu 3",
	} {
		name, week, ok := ParseDuesDescription(desc)
		if ok {
			assert.Equal(t, desc, DuesDescription(name, week))
		}
	}
}

func TestBuildChecklist_IgnoresNonCanonical(t *testing.T) {
	now := day(2025, 9, 10)
	c := BuildChecklist([]models.Transaction{
		tx(now, "Iuran Achmad - Minggu 01", models.CategoryIncome, dues),
		tx(now, "Iuran  Budi - Minggu 2", models.CategoryIncome, dues),
		tx(now, "Iuran Citra - Minggu 3 ", models.CategoryIncome, dues),
	}, roster, dues, now)

	assert.Zero(t, c.CheckedCount)
	assert.False(t, c.Checked("Achmad", 1))
	assert.False(t, c.Checked("Budi", 2))
	assert.False(t, c.Checked("Citra", 3))
}

func TestChecklistWeeks(t *testing.T) {
	// 2025-09-01 为周一：ceil((30+1)/7) = 5
	assert.Equal(t, 5, ChecklistWeeks(day(2025, 9, 15)))
	// 2026-02-01 为周日：ceil((28+0)/7) = 4
	assert.Equal(t, 4, ChecklistWeeks(day(2026, 2, 15)))
	// 2025-03-01 为周六：ceil((31+6)/7) = 6，而周汇总只有 5 周
	assert.Equal(t, 6, ChecklistWeeks(day(2025, 3, 15)))
	assert.Equal(t, 5, WeeksInMonth(day(2025, 3, 15)))
}

func TestBuildChecklist_Match(t *testing.T) {
	now := day(2025, 9, 10)
	c := BuildChecklist([]models.Transaction{
		tx(day(2025, 9, 1), "Iuran Achmad - Minggu 1", models.CategoryIncome, dues),
	}, roster, dues, now)

	assert.Equal(t, 5, c.Weeks)
	assert.True(t, c.Checked("Achmad", 1))
	for _, name := range roster {
		for w := 1; w <= c.Weeks; w++ {
			if name == "Achmad" && w == 1 {
				continue
			}
			assert.False(t, c.Checked(name, w), "%s week %d", name, w)
		}
	}
	assert.Equal(t, 1, c.CheckedCount)
	assert.Equal(t, dues, c.ChecklistIncome)
}

func TestBuildChecklist_NonMatches(t *testing.T) {
	now := day(2025, 9, 10)
	c := BuildChecklist([]models.Transaction{
		tx(now, "Iuran Achmad - Minggu 1", models.CategoryIncome, 35000),
		tx(now, "Iuran Achmad - Minggu 2", models.CategoryExpense, dues),
		tx(now, "Iuran Dodi - Minggu 1", models.CategoryIncome, dues),
		tx(now, "Iuran Budi - Minggu 6", models.CategoryIncome, dues),
		tx(now, "Iuran achmad - Minggu 3", models.CategoryIncome, dues),
	}, roster, dues, now)

	assert.Zero(t, c.CheckedCount)
	assert.Zero(t, c.ChecklistIncome)
	assert.False(t, c.Checked("Achmad", 1))
	assert.False(t, c.Checked("Achmad", 2))
	assert.False(t, c.Checked("Budi", 6))
	_, ok := c.Grid["Dodi"]
	assert.False(t, ok)
}

func TestBuildChecklist_FullGridAndDuplicates(t *testing.T) {
	now := day(2025, 3, 5)
	c := BuildChecklist([]models.Transaction{
		tx(now, "Iuran Citra - Minggu 6", models.CategoryIncome, dues),
		tx(now, "Iuran Citra - Minggu 6", models.CategoryIncome, dues),
		tx(now, "Iuran Budi - Minggu 2", models.CategoryIncome, dues),
	}, roster, dues, now)

	require.Len(t, c.Grid, len(roster))
	for _, name := range roster {
		assert.Len(t, c.Grid[name], 6)
	}
	assert.True(t, c.Checked("Citra", 6))
	assert.True(t, c.Checked("Budi", 2))
	// 重复记录只算一个格子
	assert.Equal(t, 2, c.CheckedCount)
	assert.Equal(t, 2*dues, c.ChecklistIncome)
}

func TestIsDuesPayment(t *testing.T) {
	ok := tx(day(2025, 9, 1), DuesDescription("Budi", 3), models.CategoryIncome, dues)
	assert.True(t, IsDuesPayment(ok, "Budi", 3, dues))
	assert.False(t, IsDuesPayment(ok, "Budi", 2, dues))
	assert.False(t, IsDuesPayment(ok, "Citra", 3, dues))
	assert.False(t, IsDuesPayment(ok, "Budi", 3, 1))
}

func TestIsMember(t *testing.T) {
	assert.True(t, IsMember(roster, "Budi"))
	assert.False(t, IsMember(roster, "budi"))
	assert.False(t, IsMember(nil, "Budi"))
}

func TestBuildChecklist_Idempotent(t *testing.T) {
	now := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)
	txs := []models.Transaction{tx(now, "Iuran Budi - Minggu 2", models.CategoryIncome, dues)}
	assert.Equal(t, BuildChecklist(txs, roster, dues, now), BuildChecklist(txs, roster, dues, now))
}
