package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/DanielSkala/gold-price-scraper/internal/amqp"
	"github.com/DanielSkala/gold-price-scraper/internal/config"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
	applog "github.com/DanielSkala/gold-price-scraper/internal/log"
	"github.com/DanielSkala/gold-price-scraper/internal/services"
	"github.com/DanielSkala/gold-price-scraper/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New("expenses-import")
	applog.SetDefault(logger)

	var (
		file = flag.String("file", "", "import a single statement file instead of the statements directory")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	rules := core.DefaultRuleset()
	if cfg.RulesPath != "" {
		var err error
		rules, err = core.LoadRuleset(cfg.RulesPath)
		if err != nil {
			logger.Error("Failed to load category rules", "error", err, "path", cfg.RulesPath)
			os.Exit(1)
		}
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a broker the import still lands in SQLite.
	var publisher services.ImportPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, importing without notifications", "error", err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	svc := services.NewImportService(repo, publisher, rules)
	ctx := context.Background()

	if *file != "" {
		result, err := svc.ImportFile(ctx, *file)
		if err != nil {
			logger.Error("Import failed", "file", *file, "error", err)
			os.Exit(1)
		}
		logger.Info("Import finished",
			"import_id", result.ImportID, "rows", result.Rows, "skipped", result.Skipped)
		return
	}

	results, err := svc.ImportDir(ctx, cfg.StatementsDir)
	if err != nil {
		logger.Error("Import failed", "dir", cfg.StatementsDir, "error", err)
		os.Exit(1)
	}

	var rows, skipped int
	for _, r := range results {
		rows += r.Rows
		skipped += r.Skipped
	}
	logger.Info("Import finished",
		"files", len(results), "rows", rows, "skipped", skipped)
}
