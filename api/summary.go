package api

import (
	"kas/service"

	"github.com/gin-gonic/gin"
)

// SummaryHandler 汇总处理器
type SummaryHandler struct {
	reporter  *service.Reporter
	checklist *service.ChecklistService
}

// NewSummaryHandler 创建汇总处理器
func NewSummaryHandler(reporter *service.Reporter, checklist *service.ChecklistService) *SummaryHandler {
	return &SummaryHandler{reporter: reporter, checklist: checklist}
}

// WeeklySummary 当月周汇总
// @Summary 当月周汇总
// @Description 返回当月结余以及每周收入/支出，周次按 ceil(日期/7) 计算
// @Tags 统计
// @Produce json
// @Success 200 {object} Response{data=summary.WeeklySummary} "获取成功"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/weekly-summary [get]
func (h *SummaryHandler) WeeklySummary(c *gin.Context) {
	weekly, err := h.reporter.Weekly(c.Request.Context())
	if err != nil {
		StoreError(c, err, "获取周汇总失败")
		return
	}
	Success(c, weekly)
}

// Checklist 当月会费打卡表
// @Summary 会费打卡表
// @Description 从 "Iuran <Name> - Minggu <Week>" 形式的收入记录推导
// @Tags 会费
// @Produce json
// @Success 200 {object} Response{data=summary.Checklist} "获取成功"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/checklist [get]
func (h *SummaryHandler) Checklist(c *gin.Context) {
	cl, err := h.checklist.Build(c.Request.Context())
	if err != nil {
		StoreError(c, err, "获取打卡表失败")
		return
	}
	Success(c, cl)
}

// Dashboard 周汇总 + 打卡表
// @Summary 仪表盘
// @Tags 统计
// @Produce json
// @Success 200 {object} Response{data=service.MonthlyReport} "获取成功"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/dashboard [get]
func (h *SummaryHandler) Dashboard(c *gin.Context) {
	report, err := h.reporter.Monthly(c.Request.Context())
	if err != nil {
		StoreError(c, err, "获取仪表盘失败")
		return
	}
	Success(c, report)
}
