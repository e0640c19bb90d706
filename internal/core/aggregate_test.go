package core

import (
	"reflect"
	"testing"
)

func tx(year, month, day int, merchant, category string, cents int64) Transaction {
	return Transaction{
		Date:     NewDate(year, month, day),
		Merchant: merchant,
		Amount:   Money{Cents: cents},
		Category: category,
	}
}

func TestAggregateGroupsAndSums(t *testing.T) {
	txs := []Transaction{
		tx(2025, 1, 10, "LIDL", "groceries", -5000),
		tx(2025, 1, 15, "CAFE", "eating out", -2000),
		tx(2025, 2, 1, "TESCO", "groceries", -3000),
	}
	got := Aggregate(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}

	jan := got[0]
	if jan.Year != 2025 || jan.Month != 1 {
		t.Fatalf("expected January first, got %v", jan.Key())
	}
	if jan.Total.Cents != -7000 {
		t.Errorf("January total = %d, want -7000", jan.Total.Cents)
	}
	if jan.ByCategory["groceries"].Cents != -5000 || jan.ByCategory["eating out"].Cents != -2000 {
		t.Errorf("unexpected January category sums: %v", jan.ByCategory)
	}

	feb := got[1]
	if feb.Total.Cents != -3000 {
		t.Errorf("February total = %d, want -3000", feb.Total.Cents)
	}
}

func TestAggregateTotalEqualsCategorySum(t *testing.T) {
	txs := []Transaction{
		tx(2024, 5, 1, "a", "groceries", -1234),
		tx(2024, 5, 2, "b", "eating out", -567),
		tx(2024, 5, 3, "c", FallbackCategory, -89),
		tx(2024, 5, 4, "d", "groceries", 250), // refund
	}
	for _, s := range Aggregate(txs) {
		var catSum int64
		for _, m := range s.ByCategory {
			catSum += m.Cents
		}
		if catSum != s.Total.Cents {
			t.Fatalf("month %v: category sum %d != total %d", s.Key(), catSum, s.Total.Cents)
		}
	}
}

func TestAggregateChronologicalAcrossYears(t *testing.T) {
	txs := []Transaction{
		tx(2025, 1, 1, "a", "x", -100),
		tx(2024, 12, 1, "b", "x", -100),
		tx(2024, 2, 1, "c", "x", -100),
	}
	got := Aggregate(txs)
	keys := []MonthKey{got[0].Key(), got[1].Key(), got[2].Key()}
	want := []MonthKey{{2024, 2}, {2024, 12}, {2025, 1}}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("got order %v, want %v", keys, want)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	txs := []Transaction{
		tx(2025, 3, 1, "a", "groceries", -100),
		tx(2025, 3, 2, "b", "eating out", -200),
		tx(2025, 4, 1, "c", "groceries", -300),
	}
	first := Aggregate(txs)
	second := Aggregate(txs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("aggregating the same input twice produced different summaries")
	}
}

func TestAverages(t *testing.T) {
	summaries := Aggregate([]Transaction{
		tx(2025, 1, 1, "a", "groceries", -10000),
		tx(2025, 2, 1, "b", "groceries", -20000),
	})
	avg := Averages(summaries, []string{"groceries", "travel"})

	if avg.NumMonths != 2 || avg.LastNCount != 2 {
		t.Fatalf("unexpected counts: %+v", avg)
	}
	if avg.Overall["groceries"].Cents != -15000 {
		t.Errorf("overall groceries average = %d, want -15000", avg.Overall["groceries"].Cents)
	}
	if avg.Overall["travel"].Cents != 0 {
		t.Errorf("expected zero average for absent category, got %d", avg.Overall["travel"].Cents)
	}
}

func TestAveragesLastThreeWindow(t *testing.T) {
	var txs []Transaction
	for m := 1; m <= 5; m++ {
		txs = append(txs, tx(2025, m, 1, "a", "groceries", -int64(m)*1000))
	}
	avg := Averages(Aggregate(txs), []string{"groceries"})
	if avg.LastNCount != 3 {
		t.Fatalf("expected window of 3, got %d", avg.LastNCount)
	}
	// Months 3, 4, 5: (-3000 + -4000 + -5000) / 3
	if avg.LastThree["groceries"].Cents != -4000 {
		t.Errorf("last-3 average = %d, want -4000", avg.LastThree["groceries"].Cents)
	}
}

func TestAveragesEmpty(t *testing.T) {
	avg := Averages(nil, []string{"groceries"})
	if avg.NumMonths != 0 || len(avg.Overall) != 0 {
		t.Fatalf("expected empty averages, got %+v", avg)
	}
}

func TestTrends(t *testing.T) {
	summaries := Aggregate([]Transaction{
		tx(2025, 1, 1, "a", "groceries", 10000),
		tx(2025, 2, 1, "b", "groceries", 15000),
	})
	trends := Trends(summaries, []string{"groceries"})
	tr, ok := trends["groceries"]
	if !ok {
		t.Fatal("missing groceries trend")
	}
	if tr.Current.Cents != 15000 || tr.Previous.Cents != 10000 {
		t.Fatalf("unexpected trend values: %+v", tr)
	}
	if tr.TrendPercent != 50 {
		t.Errorf("trend percent = %v, want 50", tr.TrendPercent)
	}
}

func TestTrendsNeedTwoMonths(t *testing.T) {
	summaries := Aggregate([]Transaction{tx(2025, 1, 1, "a", "x", 100)})
	if Trends(summaries, []string{"x"}) != nil {
		t.Fatal("expected nil trends for a single month")
	}
}

func TestCategoryTotals(t *testing.T) {
	summaries := Aggregate([]Transaction{
		tx(2025, 1, 1, "a", "groceries", -100),
		tx(2025, 2, 1, "b", "groceries", -200),
		tx(2025, 2, 2, "c", "travel", -300),
	})
	totals := CategoryTotals(summaries, []string{"groceries", "travel"})
	if totals["groceries"].Cents != -300 || totals["travel"].Cents != -300 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}
