package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 500", FormatRupiah(500))
	assert.Equal(t, "Rp 5.000", FormatRupiah(5000))
	assert.Equal(t, "Rp 40.000", FormatRupiah(40000))
	assert.Equal(t, "Rp 1.250.000", FormatRupiah(1250000))
	assert.Equal(t, "-Rp 4.800", FormatRupiah(-4800))
}

func TestParseRupiah(t *testing.T) {
	assert.Equal(t, int64(1250000), ParseRupiah("Rp 1.250.000"))
	assert.Equal(t, int64(40000), ParseRupiah("40000"))
	assert.Equal(t, int64(0), ParseRupiah(""))
	assert.Equal(t, int64(0), ParseRupiah("abc"))
	// 负号同样被丢弃
	assert.Equal(t, int64(200), ParseRupiah("-200"))
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryIncome.Valid())
	assert.True(t, CategoryExpense.Valid())
	assert.False(t, Category("income").Valid())
	assert.False(t, Category("").Valid())
	assert.Len(t, GetCategories(), 2)
}
