package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"

	billingapp "github.com/tracepulse/backend/internal/application/billing"
	identityapp "github.com/tracepulse/backend/internal/application/identity"
	"github.com/tracepulse/backend/internal/application/ingest"
	"github.com/tracepulse/backend/internal/infrastructure/auth"
	"github.com/tracepulse/backend/internal/infrastructure/config"
	"github.com/tracepulse/backend/internal/infrastructure/logger"
	"github.com/tracepulse/backend/internal/infrastructure/persistence"
	"github.com/tracepulse/backend/internal/infrastructure/telemetry"
	"github.com/tracepulse/backend/internal/interfaces/http/handler"
	"github.com/tracepulse/backend/internal/interfaces/http/middleware"
	"github.com/tracepulse/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting TracePulse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Self-instrumentation: the ingestion pipeline can export its own
	// traces to a collector
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Database.DBName))); err != nil {
			log.Error("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Redis client for the dashboard usage snapshot cache
	redisClient := persistence.NewRedisClient(&cfg.Redis)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewUserRepository(db.DB)
	tierRepo := persistence.NewSubscriptionTierRepository(db.DB)
	tokenRepo := persistence.NewIngestTokenRepository(db.DB)

	// Application services
	usageCache := persistence.NewRedisUsageCache(redisClient, cfg.Ingest.UsageCacheTTL)
	usageService := billingapp.NewUsageService(userRepo, tierRepo, usageCache, log)
	tokenService := identityapp.NewTokenService(tokenRepo, log)

	txScope := persistence.NewGormTransactionScope(db.DB)
	coordinator := ingest.NewCoordinator(txScope, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP layer
	engine := router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		IngestAuth: middleware.IngestAuth(tokenService, log),
		System:     handler.NewSystemHandler(db),
		Ingest:     handler.NewIngestHandler(coordinator, usageService, log),
		Usage:      handler.NewUsageHandler(usageService, log),
		Tokens:     handler.NewTokenHandler(tokenService, log),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
