package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centavo-app/centavo-backend/internal/config"
	"github.com/centavo-app/centavo-backend/internal/handler"
	"github.com/centavo-app/centavo-backend/internal/insight"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/repository/postgres"
	"github.com/centavo-app/centavo-backend/internal/repository/storage"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	store, err := postgres.NewRecordStore(context.Background(), pool)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize record store")
	}

	// WebSocket hub for change events
	hub := websocket.NewHub()
	defer hub.CloseAll()

	// Initialize services and load persisted state
	ledgerService := service.NewLedgerService(store)
	if err := ledgerService.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load expense ledger")
	}
	categoryService := service.NewCategoryService(store, ledgerService, hub)
	if err := categoryService.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load category registry")
	}
	settingsService := service.NewSettingsService(store, hub)
	if err := settingsService.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	transactionService := service.NewTransactionService(ledgerService, hub)
	dashboardService := service.NewDashboardService(ledgerService)

	// Backup archive is optional
	var archive service.BackupArchive
	if cfg.ArchiveEnabled() {
		s3Repo, err := storage.NewS3BackupRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup archive")
		}
		archive = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Backup archive enabled")
	}
	backupService := service.NewBackupService(ledgerService, categoryService, settingsService, archive, hub)

	// Model-backed insight features are optional
	var parser insight.TextParser
	var reporter insight.ReportWriter
	if cfg.InsightEnabled() {
		gemini, err := insight.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize model client")
		}
		parser = gemini
		reporter = gemini
		log.Info().Str("model", cfg.Gemini.Model).Msg("Insight features enabled")
	}
	insightService := service.NewInsightService(parser, reporter, categoryService, ledgerService, settingsService)

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	backupHandler := handler.NewBackupHandler(backupService)
	insightHandler := handler.NewInsightHandler(insightService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	insightLimiter := middleware.NewRateLimiterWithConfig(cfg.InsightRateLimit, cfg.InsightRateBurst)
	defer insightLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, insightLimiter, transactionHandler, categoryHandler, settingsHandler, dashboardHandler, backupHandler, insightHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
