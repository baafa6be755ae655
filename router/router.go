package router

import (
	"context"
	"time"

	"kas/api"
	"kas/config"
	_ "kas/docs"
	"kas/middleware"
	"kas/service"
	"kas/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由，ctx 结束时后台清理协程随之退出
func SetupRouter(ctx context.Context, cfg *config.Config, st store.Store) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	reporter := service.NewReporter(st, cfg.Dues, cfg.Now)
	checklistSvc := service.NewChecklistService(st, cfg.Dues, cfg.Now)

	transactionHandler := api.NewTransactionHandler(st, cfg.Now)
	summaryHandler := api.NewSummaryHandler(reporter, checklistSvc)
	checklistHandler := api.NewChecklistHandler(checklistSvc)
	exportHandler := api.NewExportHandler(reporter)
	reportHandler := api.NewReportHandler(reporter, service.NewEmailService(&cfg.Email))

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.WriteRateLimit(ctx, cfg.RateLimit.WritePerMinute, time.Minute))
	{
		// 交易记录
		transactions := apiGroup.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
			transactions.DELETE("/checklist/:name/:week", checklistHandler.Uncheck)
		}

		// 汇总与会费打卡
		apiGroup.GET("/weekly-summary", summaryHandler.WeeklySummary)
		apiGroup.GET("/checklist", summaryHandler.Checklist)
		apiGroup.POST("/checklist/:name/:week", checklistHandler.Check)
		apiGroup.GET("/dashboard", summaryHandler.Dashboard)

		// 导出与报表
		apiGroup.GET("/export/csv", exportHandler.ExportCSV)
		apiGroup.GET("/export/excel", exportHandler.ExportExcel)
		apiGroup.POST("/reports/email", reportHandler.SendEmail)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
