package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/DanielSkala/gold-price-scraper/internal/config"
	"github.com/DanielSkala/gold-price-scraper/internal/gold"
	applog "github.com/DanielSkala/gold-price-scraper/internal/log"
	"github.com/DanielSkala/gold-price-scraper/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New("gold-premiums")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	spot := gold.NewSpotClient(cfg.HTTPTimeout)
	shop := gold.NewShopClient(cfg.HTTPTimeout, cfg.GoldFetchLimit)
	bars := gold.DefaultBars()

	spotPerGram := spot.SpotPriceEURPerGram(ctx)
	logger.Info("Gold spot price", "eur_per_gram", fmt.Sprintf("%.2f", spotPerGram))

	prices := shop.FetchPrices(ctx, bars)
	points := gold.ComputePremiums(bars, prices, spotPerGram)

	for _, p := range points {
		if !p.Available {
			logger.Warn("Bar unavailable", "bar", p.Label)
			continue
		}
		logger.Info("Bar premium",
			"bar", p.Label,
			"price_eur", fmt.Sprintf("%.2f", p.Price),
			"premium_percent", fmt.Sprintf("%.2f", p.Premium))
	}

	for i, p := range gold.LowestPremiums(points, 3) {
		logger.Info("Best buy",
			"rank", i+1, "bar", p.Label,
			"premium_percent", fmt.Sprintf("%.2f", p.Premium))
	}

	history := gold.History{Path: cfg.GoldHistoryPath}
	if err := history.Append(points, time.Now()); err != nil {
		logger.Error("Failed to append premium history", "error", err, "path", cfg.GoldHistoryPath)
		os.Exit(1)
	}

	avgs, err := history.Averages()
	if err != nil {
		logger.Error("Failed to compute historical averages", "error", err)
		os.Exit(1)
	}
	for i, avg := range avgs {
		if i >= len(bars) || avg == nil {
			continue
		}
		logger.Info("Historical average premium",
			"bar", bars[i].Label, "premium_percent", fmt.Sprintf("%.2f", *avg))
	}

	// With the sqlite backend the run also lands in the premium history
	// table, queryable alongside the expense data.
	if cfg.DataBackend == "sqlite" {
		if err := storeRun(ctx, cfg.SQLiteDBPath, points); err != nil {
			logger.Error("Failed to store run in SQLite", "error", err)
			os.Exit(1)
		}
	}
}

func storeRun(ctx context.Context, dbPath string, points []gold.PremiumPoint) error {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	now := time.Now()
	records := make([]storage.PremiumRecord, 0, len(points))
	for _, p := range points {
		rec := storage.PremiumRecord{RunDate: now, WeightGrams: p.Grams}
		if p.Available {
			price, premium := p.Price, p.Premium
			rec.PriceEUR = &price
			rec.PremiumPercent = &premium
		}
		records = append(records, rec)
	}
	return repo.AppendPremiums(ctx, records)
}
