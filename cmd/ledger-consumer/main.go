package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chorebucks/internal/amqp"
	"chorebucks/internal/config"
	"chorebucks/internal/log"
)

// ledger-consumer tails the ledger event queue and writes each event to the
// structured log, as an audit trail and a template for heavier downstream
// consumers (notifications, allowance reports).
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentAMQP,
	})
	log.SetDefault(logger)

	logger.Info("Starting ledger-consumer")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ledger consumer")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Consuming ledger events",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = amqpClient.ConsumeLedgerEvents(ctx, func(event *amqp.LedgerEvent) error {
		logger.Info("Ledger event",
			"kind", event.Kind,
			log.FieldPersonID, event.PersonID,
			log.FieldChoreID, event.ChoreID,
			log.FieldPrizeID, event.PrizeID,
			log.FieldAmount, event.Amount,
			"timestamp", event.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Ledger event consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Ledger-consumer shutdown complete")
}
