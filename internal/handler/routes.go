package handler

import (
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, insightLimiter *middleware.RateLimiter, transactionHandler *TransactionHandler, categoryHandler *CategoryHandler, settingsHandler *SettingsHandler, dashboardHandler *DashboardHandler, backupHandler *BackupHandler, insightHandler *InsightHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/validate", transactionHandler.ValidateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:name", categoryHandler.UpdateCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("/currency", settingsHandler.GetCurrency)
	settings.PUT("/currency", settingsHandler.SetCurrency)
	settings.GET("/currencies", settingsHandler.GetSupportedCurrencies)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// Backup routes
	backup := api.Group("/backup")
	backup.GET("/export", backupHandler.Export)
	backup.POST("/restore", backupHandler.Restore)
	backup.POST("/archive", backupHandler.Archive)
	backup.GET("/archive", backupHandler.ListArchived)
	backup.POST("/archive/restore", backupHandler.RestoreArchived)

	// Insight routes (rate limited, the model calls are metered upstream)
	insight := api.Group("/insight")
	insight.Use(middleware.RateLimitMiddleware(insightLimiter))
	insight.POST("/parse-text", insightHandler.ParseText)
	insight.GET("/report/:year/:month", insightHandler.MonthlyReport)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)
}
