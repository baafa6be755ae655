package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"kas/config"
	"kas/models"
	"kas/service"
	"kas/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 9, 17, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

var testDues = config.DuesConfig{
	Amount:  40000,
	Members: []string{"Achmad", "Budi", "Citra"},
}

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(st store.Store, email *service.EmailService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	reporter := service.NewReporter(st, testDues, fixedNow)
	checklistSvc := service.NewChecklistService(st, testDues, fixedNow)
	if email == nil {
		email = service.NewEmailService(&config.EmailConfig{})
	}

	txHandler := NewTransactionHandler(st, fixedNow)
	summaryHandler := NewSummaryHandler(reporter, checklistSvc)
	checklistHandler := NewChecklistHandler(checklistSvc)
	exportHandler := NewExportHandler(reporter)
	reportHandler := NewReportHandler(reporter, email)

	r := gin.New()
	g := r.Group("/api")
	g.GET("/transactions", txHandler.List)
	g.POST("/transactions", txHandler.Create)
	g.GET("/transactions/:id", txHandler.Get)
	g.PUT("/transactions/:id", txHandler.Update)
	g.DELETE("/transactions/:id", txHandler.Delete)
	g.DELETE("/transactions/checklist/:name/:week", checklistHandler.Uncheck)
	g.GET("/weekly-summary", summaryHandler.WeeklySummary)
	g.GET("/checklist", summaryHandler.Checklist)
	g.POST("/checklist/:name/:week", checklistHandler.Check)
	g.GET("/dashboard", summaryHandler.Dashboard)
	g.GET("/export/csv", exportHandler.ExportCSV)
	g.GET("/export/excel", exportHandler.ExportExcel)
	g.POST("/reports/email", reportHandler.SendEmail)
	return r
}

func newDemoRouter(seed ...models.Transaction) (*gin.Engine, *store.MemoryStore) {
	st := store.NewMemoryStore(seed...)
	return newTestRouter(st, nil), st
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
