package gold

import (
	"math"
	"strings"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParsePriceText(t *testing.T) {
	cases := []struct {
		in   string
		out  float64
		ok   bool
	}{
		{"95,59 EUR", 95.59, true},
		{"1 234,56 EUR", 1234.56, true},
		{"2 500,00 EUR", 2500, true}, // non-breaking space
		{"88.20", 88.20, true},
		{"", 0, false},
		{"EUR", 0, false},
		{"-5,00 EUR", 0, false},
	}
	for _, tc := range cases {
		got, err := parsePriceText(tc.in)
		if tc.ok {
			if err != nil || !almostEqual(got, tc.out) {
				t.Errorf("parsePriceText(%q) = %v, %v; want %v", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Errorf("parsePriceText(%q) expected error", tc.in)
		}
	}
}

func TestExtractPriceText(t *testing.T) {
	page := `<html><body>
		<div class="product">
			<span id="hlavni_cena"> 95,59 <b>EUR</b> </span>
		</div>
	</body></html>`
	got, err := extractPriceText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("extractPriceText: %v", err)
	}
	price, err := parsePriceText(got)
	if err != nil {
		t.Fatalf("parsePriceText(%q): %v", got, err)
	}
	if !almostEqual(price, 95.59) {
		t.Errorf("price = %v, want 95.59", price)
	}
}

func TestExtractPriceTextMissingSpan(t *testing.T) {
	page := `<html><body><span id="other">1</span></body></html>`
	if _, err := extractPriceText(strings.NewReader(page)); err == nil {
		t.Fatal("expected error when price span is absent")
	}
}

func TestComputePremiums(t *testing.T) {
	bars := []Bar{
		{Label: "1g", Grams: 1},
		{Label: "10g", Grams: 10},
		{Label: "5g", Grams: 5},
	}
	prices := map[string]float64{
		"1g":  110, // 10% over a spot of 100/g
		"10g": 1050,
		// 5g sold out
	}
	points := ComputePremiums(bars, prices, 100)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	if !points[0].Available || !almostEqual(points[0].Premium, 10) {
		t.Errorf("1g premium = %+v, want 10%%", points[0])
	}
	if !almostEqual(points[1].Premium, 5) {
		t.Errorf("10g premium = %v, want 5%%", points[1].Premium)
	}
	if points[2].Available {
		t.Error("sold-out bar must not be available")
	}
}

func TestLowestPremiums(t *testing.T) {
	points := []PremiumPoint{
		{Label: "a", Premium: 12, Available: true},
		{Label: "b", Premium: 4, Available: true},
		{Label: "c", Available: false},
		{Label: "d", Premium: 8, Available: true},
		{Label: "e", Premium: 20, Available: true},
	}
	top := LowestPremiums(points, 3)
	if len(top) != 3 {
		t.Fatalf("got %d, want 3", len(top))
	}
	if top[0].Label != "b" || top[1].Label != "d" || top[2].Label != "a" {
		t.Errorf("unexpected order: %v %v %v", top[0].Label, top[1].Label, top[2].Label)
	}
}

func TestHistoryAppendAndAverages(t *testing.T) {
	h := History{Path: t.TempDir() + "/premiums.csv"}
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	run1 := []PremiumPoint{
		{Premium: 10, Available: true},
		{Available: false},
	}
	run2 := []PremiumPoint{
		{Premium: 14, Available: true},
		{Premium: 6, Available: true},
	}
	if err := h.Append(run1, day); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := h.Append(run2, day.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	avgs, err := h.Averages()
	if err != nil {
		t.Fatalf("Averages: %v", err)
	}
	if len(avgs) != 2 {
		t.Fatalf("got %d columns, want 2", len(avgs))
	}
	if avgs[0] == nil || !almostEqual(*avgs[0], 12) {
		t.Errorf("column 0 average = %v, want 12", avgs[0])
	}
	// Column 1 has one N/A and one 6.00; average ignores the N/A.
	if avgs[1] == nil || !almostEqual(*avgs[1], 6) {
		t.Errorf("column 1 average = %v, want 6", avgs[1])
	}
}

func TestHistoryAveragesMissingFile(t *testing.T) {
	h := History{Path: t.TempDir() + "/never-written.csv"}
	avgs, err := h.Averages()
	if err != nil {
		t.Fatalf("Averages: %v", err)
	}
	if avgs != nil {
		t.Fatalf("expected nil averages for missing history, got %v", avgs)
	}
}
