package core

import "sort"

type (
	// MonthlySummary holds the aggregated amounts of one calendar month.
	// Recomputed from the raw transactions on every request, never stored.
	MonthlySummary struct {
		Year       int
		Month      int // 1-12
		Total      Money
		ByCategory map[string]Money
	}

	// CategoryTrend compares the latest month with the one before it.
	CategoryTrend struct {
		Current      Money
		Previous     Money
		TrendPercent float64
	}

	// CategoryAverages carries per-category monthly averages over the whole
	// history and over the trailing three months.
	CategoryAverages struct {
		Overall    map[string]Money
		LastThree  map[string]Money
		NumMonths  int
		LastNCount int
	}
)

// Key returns the month the summary covers.
func (s MonthlySummary) Key() MonthKey {
	return MonthKey{Year: s.Year, Month: s.Month}
}

// CategorySum returns the sum for a category, zero if the category had no
// transactions that month.
func (s MonthlySummary) CategorySum(category string) Money {
	return s.ByCategory[category]
}

// Aggregate groups labeled transactions by calendar month and category,
// summing amounts in cents. It returns one summary per month present in the
// input, sorted chronologically. Within a month the total always equals the
// sum of the per-category sums because both are accumulated from the same
// cent values.
func Aggregate(txs []Transaction) []MonthlySummary {
	byMonth := make(map[MonthKey]*MonthlySummary)
	for _, tx := range txs {
		key := tx.Date.MonthKey()
		s, ok := byMonth[key]
		if !ok {
			s = &MonthlySummary{
				Year:       key.Year,
				Month:      key.Month,
				ByCategory: make(map[string]Money),
			}
			byMonth[key] = s
		}
		s.Total = s.Total.Add(tx.Amount)
		s.ByCategory[tx.Category] = s.ByCategory[tx.Category].Add(tx.Amount)
	}

	out := make([]MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().Before(out[j].Key())
	})
	return out
}

// Averages computes per-category monthly averages for the given category
// order, both over the whole history and over the trailing three months.
// Averages are in cents with integer division; the caller formats them.
func Averages(summaries []MonthlySummary, categories []string) CategoryAverages {
	avg := CategoryAverages{
		Overall:   make(map[string]Money),
		LastThree: make(map[string]Money),
		NumMonths: len(summaries),
	}
	if len(summaries) == 0 {
		return avg
	}

	lastN := summaries
	if len(lastN) > 3 {
		lastN = lastN[len(lastN)-3:]
	}
	avg.LastNCount = len(lastN)

	for _, cat := range categories {
		var total int64
		for _, s := range summaries {
			total += s.CategorySum(cat).Cents
		}
		avg.Overall[cat] = Money{Cents: total / int64(len(summaries))}

		var lastTotal int64
		for _, s := range lastN {
			lastTotal += s.CategorySum(cat).Cents
		}
		avg.LastThree[cat] = Money{Cents: lastTotal / int64(len(lastN))}
	}
	return avg
}

// Trends compares the last month against the previous one per category.
// Returns nil when fewer than two months exist. Percent change follows the
// original report: zero when the previous month had no positive spend.
func Trends(summaries []MonthlySummary, categories []string) map[string]CategoryTrend {
	if len(summaries) < 2 {
		return nil
	}
	current := summaries[len(summaries)-1]
	previous := summaries[len(summaries)-2]

	out := make(map[string]CategoryTrend, len(categories))
	for _, cat := range categories {
		cur := current.CategorySum(cat)
		prev := previous.CategorySum(cat)
		var pct float64
		if prev.Cents > 0 {
			pct = float64(cur.Cents-prev.Cents) / float64(prev.Cents) * 100
		}
		out[cat] = CategoryTrend{Current: cur, Previous: prev, TrendPercent: pct}
	}
	return out
}

// CategoryTotals sums each category across all summaries.
func CategoryTotals(summaries []MonthlySummary, categories []string) map[string]Money {
	out := make(map[string]Money, len(categories))
	for _, cat := range categories {
		var total int64
		for _, s := range summaries {
			total += s.CategorySum(cat).Cents
		}
		out[cat] = Money{Cents: total}
	}
	return out
}
