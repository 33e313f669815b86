package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yusupov7274-oss/mvp-crm-ru/config"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/controller"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/service"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/router"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/scheduler"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/storage"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/websocket"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting CRM Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations, this also seeds the owner account when missing
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (optional, caching and token blacklist degrade without it)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Failed to connect to Redis, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize S3 storage (optional, document uploads return 503 without it)
	var store storage.Storage
	if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
		store = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	} else {
		logger.Warn("S3 credentials not configured, document uploads disabled")
	}

	// Start the websocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	financialRepo := repository.NewFinancialRepository(db.GetDB())
	funnelRepo := repository.NewFunnelRepository(db.GetDB())
	taskRepo := repository.NewTaskRepository(db.GetDB())
	attachmentRepo := repository.NewAttachmentRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		accountRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	accountService := service.NewAccountService(accountRepo)
	businessService := service.NewBusinessService(businessRepo, accountRepo, hub)
	financialService := service.NewFinancialService(financialRepo, businessRepo)
	funnelService := service.NewFunnelService(funnelRepo, businessRepo)
	dashboardService := service.NewDashboardService(financialRepo, funnelRepo, businessRepo, accountRepo)
	summaryService := service.NewSummaryService(financialRepo, funnelRepo, businessRepo)
	taskService := service.NewTaskService(taskRepo, businessRepo)
	attachmentService := service.NewAttachmentService(attachmentRepo, businessRepo, store)

	// Initialize controllers
	authController := controller.NewAuthController(authService, accountService)
	accountController := controller.NewAccountController(accountService)
	businessController := controller.NewBusinessController(businessService)
	financialController := controller.NewFinancialController(financialService, businessService)
	funnelController := controller.NewFunnelController(funnelService, businessService)
	dashboardController := controller.NewDashboardController(dashboardService)
	summaryController := controller.NewSummaryController(summaryService, businessService)
	taskController := controller.NewTaskController(taskService, businessService)
	uploadController := controller.NewUploadController(attachmentService, businessService)
	feedController := controller.NewFeedController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, accountRepo)

	// Setup router
	r := router.NewRouter(
		authController,
		accountController,
		businessController,
		financialController,
		funnelController,
		dashboardController,
		summaryController,
		taskController,
		uploadController,
		feedController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start the monthly period scheduler
	periodScheduler := scheduler.NewPeriodScheduler(businessRepo, financialRepo, funnelRepo)
	if err := periodScheduler.Start(); err != nil {
		logger.Fatal("Failed to start period scheduler", err)
	}
	defer periodScheduler.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced server shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
