package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"kas/config"
	"kas/models"
	"kas/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func sampleReport() *MonthlyReport {
	now := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Date: now, Description: "Salary", Category: models.CategoryIncome, Amount: 5000},
		{Date: now, Description: "Iuran Budi - Minggu 2", Category: models.CategoryIncome, Amount: 40000},
	}
	return &MonthlyReport{
		Month:     "2025-09",
		Weekly:    summary.BuildWeekly(txs, now),
		Checklist: summary.BuildChecklist(txs, []string{"Achmad", "Budi"}, 40000, now),
	}
}

func TestGenerateMonthlyReportBody(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{})
	body := s.generateMonthlyReportBody(sampleReport())

	assert.Contains(t, body, "Kas 2025-09")
	assert.Contains(t, body, "Rp 45.000")
	assert.Contains(t, body, "Week 5")
	assert.Contains(t, body, "Minggu 5")
	assert.Contains(t, body, "<td>Budi</td>")
	assert.Contains(t, body, "✔")
	assert.Contains(t, body, "已收 1 笔")
}

func TestSendMonthlyReport_Disabled(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: false})
	err := s.SendMonthlyReport("a@example.com", sampleReport())
	assert.ErrorIs(t, err, ErrEmailDisabled)
}

func TestSendMonthlyReport(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: true, Username: "kas@example.com", From: "Kas"})

	var sent *gomail.Message
	s.send = func(m *gomail.Message) error {
		sent = m
		return nil
	}
	require.NoError(t, s.SendMonthlyReport("bendahara@example.com", sampleReport()))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"bendahara@example.com"}, sent.GetHeader("To"))
	assert.Contains(t, sent.GetHeader("Subject")[0], "2025-09")

	var buf bytes.Buffer
	_, err := sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")

	s.send = func(*gomail.Message) error { return errors.New("smtp down") }
	err = s.SendMonthlyReport("bendahara@example.com", sampleReport())
	assert.ErrorContains(t, err, "smtp down")
}
