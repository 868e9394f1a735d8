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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tommy-mor/spare/internal/app/user"
	"github.com/tommy-mor/spare/internal/cache"
	"github.com/tommy-mor/spare/internal/config"
	"github.com/tommy-mor/spare/internal/db"
	"github.com/tommy-mor/spare/internal/db/repository"
	domuser "github.com/tommy-mor/spare/internal/domain/user"
	"github.com/tommy-mor/spare/internal/http/handlers/health"
	userhandler "github.com/tommy-mor/spare/internal/http/handlers/user"
	"github.com/tommy-mor/spare/internal/http/router"
	"github.com/tommy-mor/spare/internal/kafka"
	"github.com/tommy-mor/spare/internal/logging"
	"github.com/tommy-mor/spare/internal/telemetry"
)

// storage is the user store picked by DB_DRIVER.
type storage struct {
	repo   domuser.Repository
	tx     db.Transactor
	pinger health.Pinger
	close  func() error
}

func openStorage(ctx context.Context, cfg *config.Config, logger logging.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory user store; data is lost on restart")
		return &storage{
			repo:  repository.NewMemoryUserRepository(),
			tx:    db.NoopTransactor{},
			close: func() error { return nil },
		}, nil
	}

	dbClient, err := db.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := dbClient.Migrate(ctx); err != nil {
			_ = dbClient.Close()
			return nil, err
		}
	}

	return &storage{
		repo:   repository.NewUserRepository(dbClient, logger),
		tx:     dbClient,
		pinger: dbClient,
		close:  dbClient.Close,
	}, nil
}

func main() {
	// Top-level context with graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2) Initialize logger
	logger := logging.New(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceEnv,
		cfg.Observability.LogLevel,
	)

	logger.Info("starting service",
		"env", cfg.Environment,
		"db_driver", cfg.Database.Driver,
	)

	// 3) Initialize telemetry (OpenTelemetry)
	otelShutdown, err := telemetry.Setup(ctx, cfg.Observability, logger)
	if err != nil {
		logger.Error("failed to setup telemetry", "error", err)
		os.Exit(1)
	}
	// ensure we flush / shut down exporter on exit
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	// 4) Initialize the user store
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// 5) Initialize Redis
	userCache := cache.UserCache(cache.NoopUserCache{})
	var cachePinger health.Pinger
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis", "error", err)
			}
		}()
		userCache = cache.NewUserCache(redisClient)
		cachePinger = redisClient
	} else {
		logger.Info("redis disabled; user cache off")
	}

	// 6) Initialize Kafka bus (Watermill)
	bus, closeBus, err := kafka.NewBus(cfg.Kafka, logger)
	if err != nil {
		logger.Error("failed to init kafka bus", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = closeBus(context.Background())
	}()

	// 7) Kafka router (for consumers)
	kafkaRouter, err := kafka.NewRouter(ctx, cfg.Kafka, logger)
	if err != nil {
		logger.Error("failed to init kafka router", "error", err)
		os.Exit(1)
	}

	// 8) Construct services
	userEvents := kafka.NewUserEvents(bus, cfg.Kafka, logger)

	userService := user.NewService(
		store.repo,
		userCache,
		store.tx,   // db.Transactor
		userEvents, // app/user.Events
		logger)

	// 9) HTTP handlers
	healthHandler := health.NewHandler(store.pinger, cachePinger)
	userHandler := userhandler.NewHandler(userService, logger)

	// 10) HTTP router
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpRouter := router.NewRouter(
		logger,
		healthHandler,
		userHandler,
		router.NewMetrics(registry),
	)

	// 11) HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: otelhttp.NewHandler(
			httpRouter,
			cfg.Observability.ServiceName, // span name prefix
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 12) Start concurrent processes (HTTP server, Kafka router)
	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting",
			"host", cfg.HTTP.Host,
			"port", cfg.HTTP.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		logger.Info("kafka router starting", "enabled", cfg.Kafka.Enabled)
		if err := kafkaRouter.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// 13) Wait for shutdown signal or an error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		logger.Error("fatal error from subsystem", "error", err)
		// Cancel context to trigger shutdown of others
		stop()
	}

	// 14) Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown http server", "error", err)
	}
	if err := kafkaRouter.Close(shutdownCtx); err != nil {
		logger.Error("failed to close kafka router", "error", err)
	}

	logger.Info("service stopped")
}
