// paylog-worker mirrors locally committed transactions to Google Sheets.
// It consumes sync messages published by the bot, loads the referenced row
// from SQLite and appends it to the remote spreadsheet.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/HimanshuSingh-966/PayLog/internal/amqp"
	"github.com/HimanshuSingh-966/PayLog/internal/config"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger/google"
	"github.com/HimanshuSingh-966/PayLog/internal/log"
	"github.com/HimanshuSingh-966/PayLog/internal/storage"
	"github.com/HimanshuSingh-966/PayLog/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting paylog-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sheets, err := google.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client ready", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	mq, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer mq.Close()

	syncWorker := worker.NewSyncWorker(repo, sheets)

	logger.Info("Consuming sync messages", "queue", cfg.AMQPQueue)
	err = mq.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
		return syncWorker.HandleSyncMessage(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("paylog-worker stopped gracefully")
}
