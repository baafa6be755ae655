package service

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"kas/config"
	"kas/models"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 KAS_EMAIL_ENABLED=true")

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendMonthlyReport 发送月度报表邮件
func (s *EmailService) SendMonthlyReport(toEmail string, r *MonthlyReport) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}

	subject := fmt.Sprintf("【Kas】%s 月度收支与会费报表", r.Month)
	body := s.generateMonthlyReportBody(r)

	return s.sendEmail(toEmail, subject, body)
}

// generateMonthlyReportBody 生成月度报表邮件内容
func (s *EmailService) generateMonthlyReportBody(r *MonthlyReport) string {
	var weeks strings.Builder
	for _, w := range r.Weekly.WeeklyData {
		fmt.Fprintf(&weeks, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			w.Week, models.FormatRupiah(w.Income), models.FormatRupiah(w.Expense))
	}

	var head strings.Builder
	for w := 1; w <= r.Checklist.Weeks; w++ {
		fmt.Fprintf(&head, "<th>Minggu %d</th>", w)
	}

	var grid strings.Builder
	for _, name := range r.Checklist.Members {
		fmt.Fprintf(&grid, "<tr><td>%s</td>", html.EscapeString(name))
		for w := 1; w <= r.Checklist.Weeks; w++ {
			mark := "-"
			if r.Checklist.Checked(name, w) {
				mark = "✔"
			}
			fmt.Fprintf(&grid, "<td>%s</td>", mark)
		}
		grid.WriteString("</tr>\n")
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 680px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 16px; }
        .balance { font-size: 28px; font-weight: bold; color: #059669; }
        table { width: 100%%; border-collapse: collapse; margin: 10px 0 24px; }
        th, td { border: 1px solid #e5e7eb; padding: 8px; text-align: center; font-size: 14px; }
        th { background: #f0fdf4; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 Kas %s</h1>
        </div>
        <div class="content">
            <p>本月余额：<span class="balance">%s</span></p>
            <table>
                <tr><th>周</th><th>收入</th><th>支出</th></tr>
%s            </table>
            <p>会费打卡（每周 %s）：已收 %d 笔，合计 %s</p>
            <table>
                <tr><th>成员</th>%s</tr>
%s            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, r.Month,
		models.FormatRupiah(r.Weekly.TotalBalance),
		weeks.String(),
		models.FormatRupiah(r.Checklist.DuesAmount),
		r.Checklist.CheckedCount,
		models.FormatRupiah(r.Checklist.ChecklistIncome),
		head.String(),
		grid.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
