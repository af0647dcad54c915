package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/franchise-portal/config"
	"github.com/ikkim/franchise-portal/internal/app/controller"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/internal/app/service"
	"github.com/ikkim/franchise-portal/internal/db"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/ikkim/franchise-portal/internal/router"
	"github.com/ikkim/franchise-portal/internal/scheduler"
	"github.com/ikkim/franchise-portal/internal/storage"
	ws "github.com/ikkim/franchise-portal/internal/websocket"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/pincode"
	redisclient "github.com/ikkim/franchise-portal/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting franchise portal server", map[string]interface{}{
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

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedAdmin(db.GetDB(), cfg.Admin); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional: without it logout cannot revoke tokens and pincode
	// lookups are not cached.
	var blacklist *redisclient.TokenBlacklist
	var lookup pincode.Lookuper = pincode.NewClient(cfg.Pincode.BaseURL, cfg.Pincode.Timeout)
	if err := redisclient.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without token blacklist and pincode cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redisclient.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		blacklist = redisclient.NewTokenBlacklist(redisclient.GetClient())
		lookup = pincode.NewCachedClient(lookup, redisclient.GetClient(), cfg.Pincode.CacheTTL)
	}

	var store storage.DocumentStore
	if cfg.S3.Bucket != "" && cfg.S3.AccessKeyID != "" {
		store = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	} else {
		logger.Warn("S3 credentials not set, documents are kept in memory", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
		})
		store = storage.NewMemoryStorage(fmt.Sprintf("http://localhost:%s/documents", cfg.Server.Port))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.GetDB())
	agentRepo := repository.NewAgentRepository(db.GetDB())
	appRepo := repository.NewApplicationRepository(db.GetDB())
	proposalRepo := repository.NewProposalRepository(db.GetDB())

	// Initialize services
	var revoker service.TokenRevoker
	var revocations middleware.RevocationChecker
	if blacklist != nil {
		revoker = blacklist
		revocations = blacklist
	}
	authService := service.NewAuthService(
		accountRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	appService := service.NewApplicationService(appRepo, proposalRepo, agentRepo, store, hub)
	agentService := service.NewAgentService(agentRepo, accountRepo)
	proposalService := service.NewProposalService(proposalRepo, agentRepo, hub, cfg.Proposal.FormURL, cfg.Proposal.TTL)
	reportService := service.NewReportService(appRepo)

	expiry := scheduler.NewProposalScheduler(proposalService, cfg.Proposal.ExpirySchedule)
	if err := expiry.Start(); err != nil {
		logger.Fatal("Failed to start proposal scheduler", err)
	}
	defer expiry.Stop()

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	applicationController := controller.NewApplicationController(appService, cfg.Server.MaxUploadSize)
	agentController := controller.NewAgentController(agentService)
	proposalController := controller.NewProposalController(proposalService)
	pincodeController := controller.NewPincodeController(lookup)
	adminController := controller.NewAdminController(appService, reportService, hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revocations)

	r := router.NewRouter(
		authController,
		applicationController,
		agentController,
		proposalController,
		pincodeController,
		adminController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}

	logger.Info("Server stopped successfully")
}
