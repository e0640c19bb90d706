package sheets

import (
	"context"
	"testing"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

func TestNewFromEnvMissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("expected error without GOOGLE_SPREADSHEET_ID")
	}
}

func TestNewFromEnvMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("expected error without service account credentials")
	}
}

func TestBuildRows(t *testing.T) {
	summaries := []core.MonthlySummary{
		{
			Year: 2025, Month: 1,
			Total: core.Money{Cents: 15000},
			ByCategory: map[string]core.Money{
				"groceries": {Cents: 15000},
			},
		},
	}
	rows := buildRows(summaries, []string{"groceries", "travel"})
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + month + average", len(rows))
	}
	if rows[0][0] != "Month" || rows[0][3] != "Monthly Total" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2025-01" || rows[1][1] != 150.0 || rows[1][2] != 0.0 {
		t.Errorf("month row = %v", rows[1])
	}
	if rows[2][0] != "Average" || rows[2][3] != 150.0 {
		t.Errorf("average row = %v", rows[2])
	}
}

func TestBuildRowsEmpty(t *testing.T) {
	rows := buildRows(nil, []string{"groceries"})
	if len(rows) != 1 {
		t.Fatalf("empty input should yield header only, got %d rows", len(rows))
	}
}
