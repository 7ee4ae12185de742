package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prabavijay/financeflowapp2/internal/amqp"
	"github.com/prabavijay/financeflowapp2/internal/config"
	applog "github.com/prabavijay/financeflowapp2/internal/log"
	"github.com/prabavijay/financeflowapp2/internal/sheets"
	gsheet "github.com/prabavijay/financeflowapp2/internal/sheets/google"
	"github.com/prabavijay/financeflowapp2/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting export-worker", applog.FieldOperation, applog.OpStartup)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The sheet writer is optional. Without one the worker drains the queue
	// and drops messages, which keeps the broker from filling up when the
	// spreadsheet is not configured.
	var writer sheets.PlanWriter
	if os.Getenv("GOOGLE_SPREADSHEET_ID") != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export enabled")
	} else {
		logger.Warn("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(writer)

	consumeErr := amqpClient.ConsumePlanExports(ctx, func(msg *amqp.PlanExportMessage) error {
		handleCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return exportWorker.HandlePlanExport(handleCtx, msg)
	})
	if consumeErr != nil && !errors.Is(consumeErr, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, consumeErr)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
