// Package sheets pushes the monthly summary table to a Google Sheets tab so
// the numbers can be eyeballed outside the dashboard.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
	"github.com/DanielSkala/gold-price-scraper/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ export.SummaryWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Monthly"); credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Monthly"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteSummary replaces the summary tab with the current table: a header row,
// one row per month and a trailing Average row, mirroring the CSV report.
func (c *Client) WriteSummary(ctx context.Context, summaries []core.MonthlySummary, categories []string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := buildRows(summaries, categories)

	clearRange := fmt.Sprintf("%s!A:Z", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "summary exported to sheet",
		"sheet", c.sheetName, "months", len(summaries))
	return nil
}

// buildRows renders the table as sheet values. Amounts go out as euro floats
// so the spreadsheet can apply its own number format.
func buildRows(summaries []core.MonthlySummary, categories []string) [][]any {
	header := make([]any, 0, len(categories)+2)
	header = append(header, "Month")
	for _, cat := range categories {
		header = append(header, cat)
	}
	header = append(header, "Monthly Total")

	rows := [][]any{header}
	for _, s := range summaries {
		row := make([]any, 0, len(header))
		row = append(row, s.Key().String())
		for _, cat := range categories {
			row = append(row, s.CategorySum(cat).Euros())
		}
		row = append(row, s.Total.Euros())
		rows = append(rows, row)
	}

	if len(summaries) > 0 {
		avg := core.Averages(summaries, categories)
		row := make([]any, 0, len(header))
		row = append(row, "Average")
		var totalCents int64
		for _, s := range summaries {
			totalCents += s.Total.Cents
		}
		for _, cat := range categories {
			row = append(row, avg.Overall[cat].Euros())
		}
		row = append(row, core.Money{Cents: totalCents / int64(len(summaries))}.Euros())
		rows = append(rows, row)
	}
	return rows
}
