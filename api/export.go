package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kas/models"
	"kas/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeFmt   = "2006-01-02 15:04:05"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	reporter *service.Reporter
}

// NewExportHandler 创建导出处理器
func NewExportHandler(reporter *service.Reporter) *ExportHandler {
	return &ExportHandler{reporter: reporter}
}

// monthReport 解析 month 参数（默认当月）并生成报表，失败时已写入响应
func (h *ExportHandler) monthReport(c *gin.Context) (*service.MonthlyReport, bool) {
	now := h.reporter.Now()
	at := now
	if m := c.Query("month"); m != "" {
		t, err := time.ParseInLocation("2006-01", m, now.Location())
		if err != nil {
			BadRequest(c, "月份格式错误，应为: 2006-01")
			return nil, false
		}
		at = t
	}

	report, err := h.reporter.MonthlyAt(c.Request.Context(), at)
	if err != nil {
		StoreError(c, err, "查询数据失败")
		return nil, false
	}
	return report, true
}

// monthTotals 收入、支出合计，非 Income 一律按支出计
func monthTotals(txs []models.Transaction) (income, expense int64) {
	for _, tx := range txs {
		if tx.Category == models.CategoryIncome {
			income += tx.Amount
		} else {
			expense += tx.Amount
		}
	}
	return income, expense
}

// ExportCSV 导出当月交易为 CSV
// @Summary 导出交易 CSV
// @Description 导出指定月份的交易，末尾附收入、支出、结余合计
// @Tags 导出
// @Produce text/csv
// @Param month query string false "月份 (2025-09)，默认当月"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	report, ok := h.monthReport(c)
	if !ok {
		return
	}

	loc := h.reporter.Now().Location()
	buf := new(bytes.Buffer)
	// BOM，Excel 打开时按 UTF-8 识别
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	rows := [][]string{{"ID", "Date", "Description", "Category", "Amount", "Created At"}}
	for _, tx := range report.Transactions {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(tx.ID), 10),
			tx.Date.In(loc).Format("2006-01-02"),
			tx.Description,
			string(tx.Category),
			strconv.FormatInt(tx.Amount, 10),
			tx.CreatedAt.In(loc).Format(exportTimeFmt),
		})
	}

	income, expense := monthTotals(report.Transactions)
	rows = append(rows,
		[]string{},
		[]string{"", "", "Total Income", "", strconv.FormatInt(income, 10), models.FormatRupiah(income)},
		[]string{"", "", "Total Expense", "", strconv.FormatInt(expense, 10), models.FormatRupiah(expense)},
		[]string{"", "", "Balance", "", strconv.FormatInt(report.Weekly.TotalBalance, 10), models.FormatRupiah(report.Weekly.TotalBalance)},
	)

	if err := writer.WriteAll(rows); err != nil {
		StoreError(c, err, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("kas_%s.csv", report.Month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出当月交易和打卡表为 Excel
// @Summary 导出交易 Excel
// @Description 两个工作表：当月交易（含合计行）和会费打卡表
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param month query string false "月份 (2025-09)，默认当月"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	report, ok := h.monthReport(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(report, h.reporter.Now().Location())
	if err != nil {
		StoreError(c, err, "生成 Excel 失败")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("kas_%s.xlsx", report.Month)
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		StoreError(c, err, "生成 Excel 失败")
		return
	}
}

// sheetWriter 按行列坐标写单个工作表，记录第一个错误，之后的写入全部跳过
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) cell(col, row int) string {
	if w.err != nil {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	w.err = err
	return name
}

func (w *sheetWriter) width(startCol, endCol string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, startCol, endCol, width)
	}
}

func (w *sheetWriter) set(col, row int, value interface{}) {
	if c := w.cell(col, row); w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, c, value)
	}
}

func (w *sheetWriter) style(fromCol, fromRow, toCol, toRow, styleID int) {
	from, to := w.cell(fromCol, fromRow), w.cell(toCol, toRow)
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
	}
}

func (w *sheetWriter) merge(fromCol, fromRow, toCol, toRow int) {
	from, to := w.cell(fromCol, fromRow), w.cell(toCol, toRow)
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, from, to)
	}
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

type workbookStyles struct {
	header, data, summary int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var st workbookStyles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return st, err
	}
	if st.data, err = f.NewStyle(&excelize.Style{Border: thinBorder}); err != nil {
		return st, err
	}
	if st.summary, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: thinBorder,
	}); err != nil {
		return st, err
	}
	return st, nil
}

// buildWorkbook 生成交易 + 打卡表工作簿
func buildWorkbook(report *service.MonthlyReport, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	const txSheet, clSheet = "Transactions", "Checklist"
	if err := f.SetSheetName("Sheet1", txSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(clSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeTransactionSheet(&sheetWriter{f: f, sheet: txSheet}, report, loc, styles); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeChecklistSheet(&sheetWriter{f: f, sheet: clSheet}, report, styles); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeTransactionSheet(w *sheetWriter, report *service.MonthlyReport, loc *time.Location, styles workbookStyles) error {
	w.width("A", "A", 8)
	w.width("B", "B", 12)
	w.width("C", "C", 36)
	w.width("D", "D", 12)
	w.width("E", "E", 18)

	headers := []string{"ID", "Date", "Description", "Category", "Amount"}
	for i, header := range headers {
		w.set(i+1, 1, header)
	}
	w.style(1, 1, len(headers), 1, styles.header)

	for i, tx := range report.Transactions {
		row := i + 2
		w.set(1, row, tx.ID)
		w.set(2, row, tx.Date.In(loc).Format("2006-01-02"))
		w.set(3, row, tx.Description)
		w.set(4, row, string(tx.Category))
		w.set(5, row, tx.Amount)
		w.style(1, row, 5, row, styles.data)
	}

	income, expense := monthTotals(report.Transactions)
	row := len(report.Transactions) + 3
	for _, total := range []struct {
		label  string
		amount int64
	}{
		{"Total Income", income},
		{"Total Expense", expense},
		{"Balance", report.Weekly.TotalBalance},
	} {
		w.set(1, row, total.label)
		w.merge(1, row, 4, row)
		w.set(5, row, total.amount)
		w.style(1, row, 5, row, styles.summary)
		row++
	}
	return w.err
}

func writeChecklistSheet(w *sheetWriter, report *service.MonthlyReport, styles workbookStyles) error {
	cl := report.Checklist

	w.width("A", "A", 16)
	w.set(1, 1, "Name")
	for wk := 1; wk <= cl.Weeks; wk++ {
		w.set(wk+1, 1, fmt.Sprintf("Minggu %d", wk))
	}
	w.style(1, 1, cl.Weeks+1, 1, styles.header)

	for i, name := range cl.Members {
		row := i + 2
		w.set(1, row, name)
		for wk := 1; wk <= cl.Weeks; wk++ {
			mark := ""
			if cl.Checked(name, wk) {
				mark = "✓"
			}
			w.set(wk+1, row, mark)
		}
		w.style(1, row, cl.Weeks+1, row, styles.data)
	}

	row := len(cl.Members) + 3
	w.set(1, row, "Checklist Income")
	w.set(2, row, models.FormatRupiah(cl.ChecklistIncome))
	w.style(1, row, 2, row, styles.summary)
	return w.err
}
