package api

import (
	"errors"
	"log"

	"kas/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表邮件处理器
type ReportHandler struct {
	reporter *service.Reporter
	email    *service.EmailService
}

// NewReportHandler 创建报表邮件处理器
func NewReportHandler(reporter *service.Reporter, email *service.EmailService) *ReportHandler {
	return &ReportHandler{reporter: reporter, email: email}
}

// SendReportRequest 发送报表请求
type SendReportRequest struct {
	To string `json:"to" binding:"required,email" example:"bendahara@example.com"`
}

// SendEmail 发送当月报表邮件
// @Summary 发送当月报表邮件
// @Description 周汇总和会费打卡表以 HTML 邮件发送，需在配置中启用邮件
// @Tags 报表
// @Accept json
// @Produce json
// @Param request body SendReportRequest true "收件人"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误或邮件未启用"
// @Failure 500 {object} Response "发送失败"
// @Router /api/reports/email [post]
func (h *ReportHandler) SendEmail(c *gin.Context) {
	var req SendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	if !h.email.Enabled() {
		BadRequest(c, service.ErrEmailDisabled.Error())
		return
	}

	report, err := h.reporter.Monthly(c.Request.Context())
	if err != nil {
		StoreError(c, err, "生成报表失败")
		return
	}

	if err := h.email.SendMonthlyReport(req.To, report); err != nil {
		if errors.Is(err, service.ErrEmailDisabled) {
			BadRequest(c, err.Error())
			return
		}
		log.Printf("发送报表邮件失败: to=%s, err=%v", req.To, err)
		InternalError(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}

	SuccessWithMessage(c, "发送成功", gin.H{"to": req.To, "month": report.Month})
}
