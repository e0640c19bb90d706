// Package gold computes the premium of retail gold bars over the spot price
// of their gold content. Prices are scraped from the bullion shop's product
// pages; the spot price comes from the Yahoo Finance chart API.
package gold

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// TroyOunceGrams converts between troy ounces and grams.
const TroyOunceGrams = 31.1034768

// FallbackSpotEURPerOunce is used when the spot fetch fails, pinned at the
// 4.3.2025 close.
const FallbackSpotEURPerOunce = 2730.0

const chartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=1d&interval=1d"

// SpotClient fetches the gold spot price in EUR per gram.
type SpotClient struct {
	HTTP *http.Client
}

func NewSpotClient(timeout time.Duration) *SpotClient {
	return &SpotClient{HTTP: &http.Client{Timeout: timeout}}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// quote returns the latest regular market price for a Yahoo symbol.
func (c *SpotClient) quote(ctx context.Context, symbol string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(chartURL, symbol), nil)
	if err != nil {
		return 0, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (gold-premiums)")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch quote %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode quote %s: %w", symbol, err)
	}
	if len(payload.Chart.Result) == 0 {
		return 0, fmt.Errorf("quote %s: empty result", symbol)
	}
	price := payload.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("quote %s: non-positive price %v", symbol, price)
	}
	return price, nil
}

// SpotPriceEURPerGram fetches the gold future in USD per ounce and the
// EURUSD rate, and converts to EUR per gram. On failure it logs and falls
// back to a pinned price rather than aborting the run.
func (c *SpotClient) SpotPriceEURPerGram(ctx context.Context) float64 {
	goldUSD, err := c.quote(ctx, "GC=F")
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch gold spot price, using fallback",
			"error", err, "fallback_eur_per_oz", FallbackSpotEURPerOunce)
		return FallbackSpotEURPerOunce / TroyOunceGrams
	}
	eurusd, err := c.quote(ctx, "EURUSD=X")
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch EURUSD rate, using fallback",
			"error", err, "fallback_eur_per_oz", FallbackSpotEURPerOunce)
		return FallbackSpotEURPerOunce / TroyOunceGrams
	}
	return goldUSD / eurusd / TroyOunceGrams
}
