package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// txJSON is a transaction as the API serves it. Amounts go out as euro
// floats, dates as YYYY-MM-DD, matching what the dashboard charts expect.
type txJSON struct {
	Date     string  `json:"date"`
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}

// toTxJSON converts transactions to their API form, sorted by date
// descending.
func toTxJSON(txs []core.Transaction) []txJSON {
	out := make([]txJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, txJSON{
			Date:     tx.Date.Format("2006-01-02"),
			Merchant: tx.Merchant,
			Amount:   tx.Amount.Euros(),
			Category: tx.Category,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// eurosByCategory converts a cents map to a euro-float map.
func eurosByCategory(m map[string]core.Money) map[string]float64 {
	out := make(map[string]float64, len(m))
	for cat, amount := range m {
		out[cat] = amount.Euros()
	}
	return out
}

func sumEuros(txs []core.Transaction) float64 {
	var cents int64
	for _, tx := range txs {
		cents += tx.Amount.Cents
	}
	return core.Money{Cents: cents}.Euros()
}
