package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"kas/models"
)

const dateLayout = "2006-01-02"

// TransactionRequest 创建/更新交易请求
// amount 可以是数字或字符串，非法值按 0 处理，但字段必须存在
type TransactionRequest struct {
	Date        string          `json:"date" example:"2025-09-01"`
	Description string          `json:"description" example:"Salary"`
	Category    models.Category `json:"category" example:"Income" enums:"Income,Expense"`
	Amount      json.RawMessage `json:"amount" swaggertype:"integer" example:"5000"`
}

// Fields 校验请求并转换为可写字段，loc 用于解析不带时区的日期
func (r *TransactionRequest) Fields(loc *time.Location) (models.TransactionFields, string) {
	r.Description = strings.TrimSpace(r.Description)
	if r.Date == "" || r.Description == "" || r.Category == "" || len(r.Amount) == 0 {
		return models.TransactionFields{}, "缺少必填字段：date、description、category、amount"
	}
	if !r.Category.Valid() {
		return models.TransactionFields{}, `category 只能是 "Income" 或 "Expense"`
	}
	date, err := parseDate(r.Date, loc)
	if err != nil {
		return models.TransactionFields{}, "日期格式错误，应为 2006-01-02 或 RFC3339"
	}
	return models.TransactionFields{
		Date:        date,
		Description: r.Description,
		Category:    r.Category,
		Amount:      coerceAmount(r.Amount),
	}, ""
}

// parseDate 支持 2006-01-02 与 RFC3339 两种格式
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// coerceAmount 把任意 JSON 值转换为非负整数金额，无法识别时为 0
func coerceAmount(raw json.RawMessage) int64 {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0
	}

	switch x := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return max(n, 0)
		}
		f, err := x.Float64()
		if err != nil || math.IsNaN(f) || f <= 0 || f >= math.MaxInt64 {
			return 0
		}
		return int64(f)
	case string:
		return models.ParseRupiah(x)
	default:
		return 0
	}
}

// parseID 解析路径中的 ID
func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
