package api

import (
	"errors"
	"time"

	"kas/models"
	"kas/store"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct {
	store store.Store
	now   func() time.Time
}

// NewTransactionHandler 创建交易记录处理器，now 为 nil 时使用 time.Now
func NewTransactionHandler(st store.Store, now func() time.Time) *TransactionHandler {
	if now == nil {
		now = time.Now
	}
	return &TransactionHandler{store: st, now: now}
}

func (h *TransactionHandler) location() *time.Location {
	return h.now().Location()
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 按日期倒序返回交易，可按日期范围和分类筛选
// @Tags 交易
// @Produce json
// @Param start_date query string false "开始日期 (2025-09-01)"
// @Param end_date query string false "结束日期 (2025-09-30)"
// @Param category query string false "分类" Enums(Income, Expense)
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	loc := h.location()

	var rng *store.DateRange
	startStr, endStr := c.Query("start_date"), c.Query("end_date")
	if startStr != "" || endStr != "" {
		start := time.Date(1900, 1, 1, 0, 0, 0, 0, loc)
		end := time.Date(9999, 12, 31, 0, 0, 0, 0, loc)
		if startStr != "" {
			t, err := time.ParseInLocation(dateLayout, startStr, loc)
			if err != nil {
				BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
				return
			}
			start = t
		}
		if endStr != "" {
			t, err := time.ParseInLocation(dateLayout, endStr, loc)
			if err != nil {
				BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
				return
			}
			end = t
		}
		r := store.DayRange(start, end)
		rng = &r
	}

	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		BadRequest(c, `category 只能是 "Income" 或 "Expense"`)
		return
	}

	txs, err := h.store.List(c.Request.Context(), rng)
	if err != nil {
		StoreError(c, err, "获取交易列表失败")
		return
	}

	if category != "" {
		filtered := make([]models.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.Category == category {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	Success(c, txs)
}

// Get 获取单条交易
// @Summary 获取交易详情
// @Tags 交易
// @Produce json
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		BadRequest(c, "无效的ID")
		return
	}

	tx, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c, "交易不存在")
		return
	}
	if err != nil {
		StoreError(c, err, "获取交易失败")
		return
	}

	Success(c, tx)
}

// Create 创建交易
// @Summary 创建交易
// @Description amount 可以是数字或字符串，无法识别时记为 0
// @Tags 交易
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "交易信息"
// @Success 201 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	fields, msg := req.Fields(h.location())
	if msg != "" {
		BadRequest(c, msg)
		return
	}

	tx := &models.Transaction{}
	tx.Apply(fields)
	if err := h.store.Create(c.Request.Context(), tx); err != nil {
		StoreError(c, err, "创建交易失败")
		return
	}

	Created(c, "创建成功", tx)
}

// Update 更新交易（整体替换）
// @Summary 更新交易
// @Tags 交易
// @Accept json
// @Produce json
// @Param id path int true "交易ID"
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "交易不存在"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		BadRequest(c, "无效的ID")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	fields, msg := req.Fields(h.location())
	if msg != "" {
		BadRequest(c, msg)
		return
	}

	tx, err := h.store.Update(c.Request.Context(), id, fields)
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c, "交易不存在")
		return
	}
	if err != nil {
		StoreError(c, err, "更新交易失败")
		return
	}

	SuccessWithMessage(c, "更新成功", tx)
}

// Delete 删除交易
// @Summary 删除交易
// @Tags 交易
// @Produce json
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 404 {object} Response "交易不存在"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		BadRequest(c, "无效的ID")
		return
	}

	n, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		StoreError(c, err, "删除交易失败")
		return
	}
	if n == 0 {
		NotFound(c, "交易不存在")
		return
	}

	SuccessWithMessage(c, "删除成功", gin.H{"id": id})
}
