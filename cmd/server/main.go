package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appingest "github.com/storepulse/backend/internal/application/ingest"
	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/tenant"
	"github.com/storepulse/backend/internal/infrastructure/cache"
	"github.com/storepulse/backend/internal/infrastructure/config"
	"github.com/storepulse/backend/internal/infrastructure/logger"
	"github.com/storepulse/backend/internal/infrastructure/persistence"
	"github.com/storepulse/backend/internal/infrastructure/scheduler"
	"github.com/storepulse/backend/internal/infrastructure/storefront"
	"github.com/storepulse/backend/internal/interfaces/http/handler"
	"github.com/storepulse/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting StorePulse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Tenant cache: Redis when configured, in-memory otherwise
	var tenantCache tenant.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisTenantCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Webhook.TenantCacheTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisCache.Close()
		}()
		tenantCache = redisCache
		log.Info("Redis tenant cache enabled")
	} else {
		tenantCache = cache.NewInMemoryTenantCache(cfg.Webhook.TenantCacheTTL)
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	funnelRepo := persistence.NewGormFunnelRepository(db.DB)

	// Services
	directory := appingest.NewTenantDirectory(tenantRepo, tenantCache, log)
	normalizer := ingest.NewNormalizer()
	funnelService := appingest.NewFunnelService(funnelRepo, log)
	webhookService := appingest.NewWebhookService(directory, normalizer, customerRepo, productRepo, orderRepo, funnelService, log)

	storefrontClient := storefront.NewShopifyClient(cfg.Storefront.APIVersion, cfg.Storefront.RequestTimeout, log)
	syncService := appingest.NewSyncService(directory, storefrontClient, normalizer, customerRepo, productRepo, webhookService, cfg.Sync.PageSize, log)

	// Scheduler and periodic trigger
	var syncScheduler *scheduler.SyncScheduler
	var syncTrigger *scheduler.SyncTrigger
	if cfg.Sync.Enabled {
		syncScheduler, err = scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
			MaxConcurrentJobs: cfg.Sync.MaxConcurrentJobs,
			JobTimeout:        cfg.Sync.JobTimeout,
			RetryAttempts:     cfg.Sync.RetryAttempts,
			RetryDelay:        cfg.Sync.RetryDelay,
		}, appingest.NewSyncJobExecutor(syncService), log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}

		syncTrigger = scheduler.NewSyncTrigger(scheduler.SyncTriggerConfig{
			Interval:     cfg.Sync.Interval,
			AbandonAfter: cfg.Sync.AbandonAfter,
		}, syncScheduler, directory, funnelService, log)
		if err := syncTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync trigger", zap.Error(err))
		}
	}

	// HTTP server
	webhookHandler := handler.NewWebhookHandler(webhookService, cfg.Webhook.ProcessingTimeout, log)
	var historyProvider handler.JobHistoryProvider
	if syncScheduler != nil {
		historyProvider = syncScheduler
	}
	syncHandler := handler.NewSyncHandler(syncService, historyProvider, log)
	healthHandler := handler.NewHealthHandler(db)

	engine, err := router.New(cfg, log, healthHandler, webhookHandler, syncHandler)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if syncTrigger != nil {
		syncTrigger.Stop()
	}
	if syncScheduler != nil {
		if err := syncScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Sync scheduler shutdown failed", zap.Error(err))
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
