package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmehra2102/todo-api/internal/app"
	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"github.com/dmehra2102/todo-api/internal/infrastructure/logging"
	"github.com/dmehra2102/todo-api/internal/infrastructure/sqlstore"
	"github.com/dmehra2102/todo-api/internal/infrastructure/telemetry"
	"github.com/dmehra2102/todo-api/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	obs := cfg.GetObservabilityConfig()

	// Initialize logger
	logger, err := logging.New(obs)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting todo service",
		zap.String("version", app.ServiceVersion),
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.DatabaseDriver),
	)

	// Initialize OpenTelemetry
	shutdownTracer, err := telemetry.InitTracer(context.Background(), obs, app.ServiceName, app.ServiceVersion)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// Initialize database
	dbCfg := cfg.GetDatabaseConfig()
	db, dialect, err := sqlstore.Open(context.Background(), dbCfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := sqlstore.Migrate(context.Background(), db, dialect); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := sqlstore.NewRepository(db, dialect, dbCfg)

	var metrics *middleware.Metrics
	var metricsServer *http.Server
	if cfg.EnableMetrics {
		reg := newRegistry(db, cfg.PrometheusNamespace)
		metrics = middleware.NewMetrics(cfg.PrometheusNamespace, reg)
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	srvCfg := cfg.GetServerConfig()
	handler := app.NewTodoHandler(repo, logger, cfg.GetAPIConfig())
	e := app.NewEcho(srvCfg, handler, logger, metrics)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", srvCfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", zap.Int("port", srvCfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info("Metrics server starting", zap.Int("port", cfg.MetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Shutdown timeout exceeded, forcing stop", zap.Error(err))
		_ = server.Close()
	} else {
		logger.Info("Server stopped gracefully")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
	}
}

func newRegistry(db *sql.DB, namespace string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		collectors.NewDBStatsCollector(db, namespace),
	)
	return reg
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
