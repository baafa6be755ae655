package api

import (
	"errors"
	"strconv"

	"kas/service"

	"github.com/gin-gonic/gin"
)

// ChecklistHandler 会费打卡处理器
type ChecklistHandler struct {
	svc *service.ChecklistService
}

// NewChecklistHandler 创建会费打卡处理器
func NewChecklistHandler(svc *service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{svc: svc}
}

func parseWeek(c *gin.Context) (int, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		BadRequest(c, "无效的周次")
		return 0, false
	}
	return week, true
}

func (h *ChecklistHandler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidMember), errors.Is(err, service.ErrInvalidWeek):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotChecked):
		NotFound(c, err.Error())
	default:
		StoreError(c, err, fallback)
	}
}

// Check 勾选会费
// @Summary 勾选会费
// @Description 写入一条 "Iuran <name> - Minggu <week>" 收入记录，已存在时直接返回
// @Tags 会费
// @Produce json
// @Param name path string true "成员名"
// @Param week path int true "周次"
// @Success 201 {object} Response{data=models.Transaction} "勾选成功"
// @Success 200 {object} Response{data=models.Transaction} "已勾选"
// @Failure 400 {object} Response "成员或周次无效"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/checklist/{name}/{week} [post]
func (h *ChecklistHandler) Check(c *gin.Context) {
	week, ok := parseWeek(c)
	if !ok {
		return
	}

	tx, created, err := h.svc.Check(c.Request.Context(), c.Param("name"), week)
	if err != nil {
		h.handleError(c, err, "勾选会费失败")
		return
	}

	if created {
		Created(c, "勾选成功", tx)
		return
	}
	SuccessWithMessage(c, "已勾选", tx)
}

// Uncheck 取消勾选
// @Summary 取消勾选会费
// @Description 删除描述为 "Iuran <name> - Minggu <week>" 的全部收入记录
// @Tags 会费
// @Produce json
// @Param name path string true "成员名"
// @Param week path int true "周次"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "周次无效"
// @Failure 404 {object} Response "没有匹配记录"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/transactions/checklist/{name}/{week} [delete]
func (h *ChecklistHandler) Uncheck(c *gin.Context) {
	week, ok := parseWeek(c)
	if !ok {
		return
	}

	n, err := h.svc.Uncheck(c.Request.Context(), c.Param("name"), week)
	if err != nil {
		h.handleError(c, err, "取消勾选失败")
		return
	}

	SuccessWithMessage(c, "删除成功", gin.H{"deleted_count": n})
}
