package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

func sampleSummaries() []core.MonthlySummary {
	return []core.MonthlySummary{
		{
			Year: 2025, Month: 1,
			Total: core.Money{Cents: 30000},
			ByCategory: map[string]core.Money{
				"groceries":  {Cents: 20000},
				"eating out": {Cents: 10000},
			},
		},
		{
			Year: 2025, Month: 2,
			Total: core.Money{Cents: 10000},
			ByCategory: map[string]core.Money{
				"groceries": {Cents: 10000},
			},
		},
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	categories := []string{"groceries", "eating out"}
	if err := WriteSummaryCSV(&buf, sampleSummaries(), categories); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header, 2 months, average):\n%s", len(lines), buf.String())
	}
	if lines[0] != "Month,groceries,eating out,Monthly Total" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-01,200.00,100.00,300.00" {
		t.Errorf("january row = %q", lines[1])
	}
	if lines[2] != "2025-02,100.00,0.00,100.00" {
		t.Errorf("february row = %q", lines[2])
	}
	if lines[3] != "Average,150.00,50.00,200.00" {
		t.Errorf("average row = %q", lines[3])
	}
}

func TestWriteSummaryCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, nil, []string{"groceries"}); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty input should produce header only, got %q", buf.String())
	}
}

func TestWriteSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.csv")
	if err := WriteSummaryFile(path, sampleSummaries(), []string{"groceries", "eating out"}); err != nil {
		t.Fatalf("WriteSummaryFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "2025-01,200.00,100.00,300.00") {
		t.Errorf("report missing january row:\n%s", data)
	}

	// Overwrite with a shorter summary; the rename must fully replace it.
	if err := WriteSummaryFile(path, sampleSummaries()[:1], []string{"groceries", "eating out"}); err != nil {
		t.Fatalf("WriteSummaryFile overwrite: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if strings.Contains(string(data), "2025-02") {
		t.Errorf("stale february row survived overwrite:\n%s", data)
	}
}
