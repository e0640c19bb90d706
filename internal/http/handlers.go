package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// handleMonthlyData serves the chart series: sorted month labels, one value
// series per category and the per-month totals.
func (s *Server) handleMonthlyData(w http.ResponseWriter, r *http.Request) {
	summaries, _, err := s.summaries(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}

	categories := s.rules.Categories()
	resp := struct {
		Months     []string             `json:"months"`
		Categories map[string][]float64 `json:"categories"`
		Totals     []float64            `json:"totals"`
	}{
		Months:     make([]string, 0, len(summaries)),
		Categories: make(map[string][]float64, len(categories)),
		Totals:     make([]float64, 0, len(summaries)),
	}

	for _, summary := range summaries {
		resp.Months = append(resp.Months, summary.Key().String())
		resp.Totals = append(resp.Totals, summary.Total.Euros())
	}
	for _, cat := range categories {
		series := make([]float64, 0, len(summaries))
		for _, summary := range summaries {
			series = append(series, summary.CategorySum(cat).Euros())
		}
		resp.Categories[cat] = series
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	summaries, _, err := s.summaries(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	totals := core.CategoryTotals(summaries, s.rules.Categories())
	writeJSON(w, http.StatusOK, eurosByCategory(totals))
}

func (s *Server) handleCategoryAverages(w http.ResponseWriter, r *http.Request) {
	summaries, _, err := s.summaries(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	if len(summaries) == 0 {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	avg := core.Averages(summaries, s.rules.Categories())
	writeJSON(w, http.StatusOK, struct {
		Overall    map[string]float64 `json:"overall"`
		LastThree  map[string]float64 `json:"last_3_months"`
		NumMonths  int                `json:"num_months"`
		LastNCount int                `json:"last_3_count"`
	}{
		Overall:    eurosByCategory(avg.Overall),
		LastThree:  eurosByCategory(avg.LastThree),
		NumMonths:  avg.NumMonths,
		LastNCount: avg.LastNCount,
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	summaries, _, err := s.summaries(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}

	trends := core.Trends(summaries, s.rules.Categories())
	if trends == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	type trendJSON struct {
		Current      float64 `json:"current"`
		Previous     float64 `json:"previous"`
		TrendPercent float64 `json:"trend_percent"`
	}
	resp := make(map[string]trendJSON, len(trends))
	for cat, t := range trends {
		resp[cat] = trendJSON{
			Current:      t.Current.Euros(),
			Previous:     t.Previous.Euros(),
			TrendPercent: t.TrendPercent,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.getTransactions(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTxJSON(txs))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	rules := s.rules.Rules()
	keywords := make(map[string][]string, len(rules))
	for _, rule := range rules {
		keywords[rule.Name] = rule.Keywords
	}
	writeJSON(w, http.StatusOK, struct {
		Categories    map[string][]string `json:"categories"`
		CategoryOrder []string            `json:"category_order"`
	}{
		Categories:    keywords,
		CategoryOrder: s.rules.Categories(),
	})
}

// handleMonthDetails serves the drill-down for one month: category totals,
// transactions grouped by category and the daily spending series. Without a
// month path segment the latest month is served.
func (s *Server) handleMonthDetails(w http.ResponseWriter, r *http.Request) {
	summaries, txs, err := s.summaries(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	if len(summaries) == 0 {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	selected := s.selectMonth(summaries, r.PathValue("month"))

	var monthTxs []core.Transaction
	for _, tx := range txs {
		if tx.Date.MonthKey() == selected.Key() {
			monthTxs = append(monthTxs, tx)
		}
	}

	byCategory := make(map[string][]txJSON)
	daily := make(map[string]float64)
	for _, tx := range monthTxs {
		j := toTxJSON([]core.Transaction{tx})[0]
		byCategory[tx.Category] = append(byCategory[tx.Category], j)
		daily[j.Date] += tx.Amount.Euros()
	}

	available := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		available = append(available, summary.Key().String())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(available)))

	writeJSON(w, http.StatusOK, struct {
		Month                string              `json:"month"`
		CategoryTotals       map[string]float64  `json:"category_totals"`
		CategoryTransactions map[string][]txJSON `json:"category_transactions"`
		DailySpending        map[string]float64  `json:"daily_spending"`
		TotalTransactions    int                 `json:"total_transactions"`
		AvailableMonths      []string            `json:"available_months"`
	}{
		Month:                selected.Key().String(),
		CategoryTotals:       eurosByCategory(selected.ByCategory),
		CategoryTransactions: byCategory,
		DailySpending:        daily,
		TotalTransactions:    len(monthTxs),
		AvailableMonths:      available,
	})
}

// handleCategoryTransactions serves all transactions of one category across
// the whole history.
func (s *Server) handleCategoryTransactions(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	txs, err := s.getTransactions(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}

	var matched []core.Transaction
	for _, tx := range txs {
		if tx.Category == category {
			matched = append(matched, tx)
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Category         string   `json:"category"`
		Transactions     []txJSON `json:"transactions"`
		TotalAmount      float64  `json:"total_amount"`
		TransactionCount int      `json:"transaction_count"`
	}{
		Category:         category,
		Transactions:     toTxJSON(matched),
		TotalAmount:      sumEuros(matched),
		TransactionCount: len(matched),
	})
}

// handleMonthCategoryTransactions narrows the category drill-down to a single
// month, defaulting to the latest one.
func (s *Server) handleMonthCategoryTransactions(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	summaries, txs, err := s.summaries(r.Context())
	if err != nil {
		s.serveError(w, r, err)
		return
	}

	resp := struct {
		Category         string   `json:"category"`
		Month            string   `json:"month,omitempty"`
		Transactions     []txJSON `json:"transactions"`
		TotalAmount      float64  `json:"total_amount"`
		TransactionCount int      `json:"transaction_count"`
	}{Category: category, Transactions: []txJSON{}}

	if len(summaries) == 0 {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	selected := s.selectMonth(summaries, r.PathValue("month"))

	var matched []core.Transaction
	for _, tx := range txs {
		if tx.Category == category && tx.Date.MonthKey() == selected.Key() {
			matched = append(matched, tx)
		}
	}

	resp.Month = selected.Key().String()
	resp.Transactions = toTxJSON(matched)
	resp.TotalAmount = sumEuros(matched)
	resp.TransactionCount = len(matched)
	writeJSON(w, http.StatusOK, resp)
}

// selectMonth resolves an optional YYYY-MM path segment against the known
// months, falling back to the latest one.
func (s *Server) selectMonth(summaries []core.MonthlySummary, month string) core.MonthlySummary {
	if month != "" {
		if key, err := core.ParseMonthKey(month); err == nil {
			for _, summary := range summaries {
				if summary.Key() == key {
					return summary
				}
			}
		}
	}
	return summaries[len(summaries)-1]
}

func (s *Server) serveError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
