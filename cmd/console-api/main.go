package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-schedule-console/api/swagger"
	"github.com/noah-isme/sis-schedule-console/internal/handler"
	"github.com/noah-isme/sis-schedule-console/internal/middleware"
	"github.com/noah-isme/sis-schedule-console/internal/repository"
	"github.com/noah-isme/sis-schedule-console/internal/service"
	"github.com/noah-isme/sis-schedule-console/pkg/cache"
	"github.com/noah-isme/sis-schedule-console/pkg/config"
	"github.com/noah-isme/sis-schedule-console/pkg/database"
	"github.com/noah-isme/sis-schedule-console/pkg/hrms"
	"github.com/noah-isme/sis-schedule-console/pkg/jobs"
	"github.com/noah-isme/sis-schedule-console/pkg/logger"
)

// @title SIS Schedule Console API
// @version 1.0.0
// @description Reconciles SIS schedules with HRMS teacher assignments
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var store service.CacheRepository = repository.NewMemoryCacheRepository()
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	switch {
	case err != nil:
		logr.Warn("redis unavailable, keeping console state in memory", zap.Error(err))
	case redisClient != nil:
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		defer redisRepo.Close() //nolint:errcheck
		store = redisRepo
		checks["redis"] = redisRepo.Ping
	}
	cacheSvc := service.NewCacheService(store, metrics, cfg.Console.SessionTTL, logr)

	var (
		auditWriter  middleware.AuditWriter
		auditHandler *handler.AuditHandler
	)
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect audit database", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck

		auditRepo := repository.NewAuditRepository(db, metrics)
		if err := auditRepo.EnsureSchema(ctx); err != nil {
			logr.Fatal("failed to prepare audit schema", zap.Error(err))
		}
		auditWriter = auditRepo
		auditHandler = handler.NewAuditHandler(service.NewAuditService(auditRepo, logr))
		checks["database"] = auditRepo.Ping
	}

	client := hrms.NewClient(hrms.Options{
		BaseURL:  cfg.HRMS.BaseURL,
		Timeout:  cfg.HRMS.Timeout,
		Observer: metrics,
		Logger:   logr,
	})

	busy := service.NewBusyTracker()
	board := service.NewBoardService(client, cacheSvc, busy, cfg.Console.SessionTTL, cfg.Console.DefaultPageSize, logr)
	drafts := service.NewDraftService(client, board, cacheSvc, validator.New(), cfg.Console.DraftTTL, logr)
	assignments := service.NewAssignmentService(client, drafts, board, busy, metrics, logr)
	syncSvc := service.NewSyncService(client, board, busy, metrics, logr)
	exports := service.NewExportService(board, logr)

	if cfg.Sync.AutoInterval > 0 {
		queue := jobs.NewQueue("auto-sync", syncSvc.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Sync.Workers,
			MaxRetries: cfg.Sync.Retries,
			RetryDelay: cfg.Sync.RetryDelay,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()
		if err := queue.Every(cfg.Sync.AutoInterval, func() jobs.Job {
			return jobs.Job{ID: uuid.NewString(), Type: service.JobTypeSyncExisting, Session: "auto"}
		}); err != nil {
			logr.Fatal("failed to schedule auto sync", zap.Error(err))
		}
		logr.Info("auto sync enabled", zap.Duration("interval", cfg.Sync.AutoInterval))
	}

	router := handler.NewRouter(handler.Handlers{
		Console: handler.NewConsoleHandler(board, syncSvc, exports),
		Drafts:  handler.NewDraftHandler(drafts, assignments),
		Metrics: handler.NewMetricsHandler(metrics, checks),
		Audit:   auditHandler,
	}, handler.RouterOptions{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Audit:          auditWriter,
		Metrics:        metrics,
		Logger:         logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "hrms", cfg.HRMS.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
