/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the asset engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags/environment
  2. Build the validated engine configuration
  3. Open the SQLite store
  4. Wire the booking service and API handler
  5. Start the server with graceful shutdown

CONFIGURATION:
  -a / RUN_ADDRESS              listen address (default :8080)
  -db / DATABASE_PATH           SQLite path, ":memory:" for in-memory
  -threshold / LOW_VALUE_THRESHOLD  low-value asset threshold
  -tax-rate / TAX_RATE          gross-to-net estimation rate
  -life-table / LIFE_TABLE_PATH optional JSON useful-life overrides

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/equiptrack/asset-engine/api"
	"github.com/equiptrack/asset-engine/booking"
	"github.com/equiptrack/asset-engine/config"
	"github.com/equiptrack/asset-engine/store/sqlite"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		logger.Fatal("engine configuration error", zap.Error(err))
	}

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("database initialization error", zap.Error(err))
	}
	defer store.Close()

	bookingSvc := booking.NewService(store, store)
	handler := api.NewHandler(store, bookingSvc, engineCfg, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.RunAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
