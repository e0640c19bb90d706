package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DanielSkala/gold-price-scraper/internal/bankcsv"
	"github.com/DanielSkala/gold-price-scraper/internal/config"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
	apphttp "github.com/DanielSkala/gold-price-scraper/internal/http"
	applog "github.com/DanielSkala/gold-price-scraper/internal/log"
	"github.com/DanielSkala/gold-price-scraper/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New("dashboard")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	rules, err := loadRules(cfg)
	if err != nil {
		logger.Error("Failed to load category rules", "error", err, "path", cfg.RulesPath)
		os.Exit(1)
	}

	var source apphttp.TransactionSource
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		source = repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		source = bankcsv.DirSource{Dir: cfg.StatementsDir, Rules: rules}
		logger.Info("Initialized csv backend", "dir", cfg.StatementsDir)
	}

	srv := apphttp.NewServer(":"+cfg.Port, source, rules)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting dashboard server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func loadRules(cfg *config.Config) (core.Ruleset, error) {
	if cfg.RulesPath == "" {
		return core.DefaultRuleset(), nil
	}
	return core.LoadRuleset(cfg.RulesPath)
}
