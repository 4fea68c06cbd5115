package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chorebucks/internal/amqp"
	"chorebucks/internal/config"
	"chorebucks/internal/log"
	"chorebucks/internal/services"
	"chorebucks/internal/storage"
)

// reset-worker runs the recurrence sweep out-of-process, for deployments
// where the API server should not own the schedule.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentScheduler,
	})
	log.SetDefault(logger)

	logger.Info("Starting reset-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", log.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	scheduler := services.NewResetScheduler(sqliteRepo, amqpClient, logger, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Reset sweep configured",
		"interval", cfg.SweepInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	// Run an initial sweep on startup to catch resets missed while down.
	runSweep(ctx, scheduler, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			logger.Info("Reset-worker shutdown complete")
			return
		case <-ticker.C:
			runSweep(ctx, scheduler, logger)
		}
	}
}

func runSweep(ctx context.Context, scheduler *services.ResetScheduler, logger *log.Logger) {
	result, err := scheduler.RunSweepNow(ctx)
	if err != nil {
		logger.Error("Sweep failed", log.FieldError, err)
		return
	}
	logger.Info("Sweep complete",
		"checked", result.Checked,
		"reset", result.Reset,
		"failed", result.Failed)
}
