package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/bootstrap"
	"github.com/sangkips/posgo-api/internal/config"
	"github.com/sangkips/posgo-api/pkg/logger"
	"go.uber.org/zap"
)

const idempotencySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect storage, migrating and seeding the schema on startup
	stores, err := bootstrap.OpenStores(cfg, true, zlog)
	if err != nil {
		zlog.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			zlog.Warn("failed to close storage", zap.Error(err))
		}
	}()

	thermalPrinter := bootstrap.NewPrinter(&cfg.Printer, zlog)
	services := bootstrap.NewServices(stores, cfg, thermalPrinter, zlog)
	router := bootstrap.NewRouter(services, stores, cfg, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, stores, zlog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("printer", thermalPrinter.Kind()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// sweepIdempotencyKeys drops expired checkout replay records until ctx is done
func sweepIdempotencyKeys(ctx context.Context, stores *bootstrap.Stores, zlog *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := stores.Idempotency.DeleteExpired(ctx); err != nil {
				zlog.Warn("failed to delete expired idempotency keys", zap.Error(err))
			}
		}
	}
}
