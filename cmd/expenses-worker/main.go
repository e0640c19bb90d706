package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/DanielSkala/gold-price-scraper/internal/amqp"
	"github.com/DanielSkala/gold-price-scraper/internal/config"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
	"github.com/DanielSkala/gold-price-scraper/internal/export"
	"github.com/DanielSkala/gold-price-scraper/internal/export/sheets"
	applog "github.com/DanielSkala/gold-price-scraper/internal/log"
	"github.com/DanielSkala/gold-price-scraper/internal/storage"
	"github.com/DanielSkala/gold-price-scraper/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New("expenses-worker")
	applog.SetDefault(logger)

	logger.Info("Starting expenses-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	rules := core.DefaultRuleset()
	if cfg.RulesPath != "" {
		rules, err = core.LoadRuleset(cfg.RulesPath)
		if err != nil {
			logger.Error("Failed to load category rules", "error", err, "path", cfg.RulesPath)
			os.Exit(1)
		}
	}

	// Google Sheets export is optional.
	var summaryWriter export.SummaryWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		summaryWriter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	reportPath := filepath.Join(cfg.ReportOutDir, "monthly_summary.csv")
	exportWorker := worker.NewExportWorker(repo, rules, reportPath, summaryWriter)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refresh the export on startup to cover imports that happened while the
	// worker was down.
	if err := exportWorker.RunOnce(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
		// Keep running; the next import message retries the export.
	}

	go func() {
		err := amqpClient.ConsumeImports(ctx, func(msg *amqp.ImportCompletedMessage) error {
			return exportWorker.HandleImportMessage(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker stopped")
}
