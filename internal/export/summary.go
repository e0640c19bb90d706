// Package export renders monthly summaries for consumers outside the
// dashboard: a CSV report file and, optionally, a Google Sheets tab.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// WriteSummaryCSV writes one row per month with a column per category plus a
// monthly total, followed by a trailing Average row. Same table the statement
// report prints.
func WriteSummaryCSV(w io.Writer, summaries []core.MonthlySummary, categories []string) error {
	cw := csv.NewWriter(w)

	header := append([]string{"Month"}, categories...)
	header = append(header, "Monthly Total")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range summaries {
		row := make([]string, 0, len(header))
		row = append(row, s.Key().String())
		for _, cat := range categories {
			row = append(row, s.CategorySum(cat).String())
		}
		row = append(row, s.Total.String())
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write month %s: %w", s.Key(), err)
		}
	}

	if len(summaries) > 0 {
		avg := core.Averages(summaries, categories)
		row := make([]string, 0, len(header))
		row = append(row, "Average")
		var totalCents int64
		for _, s := range summaries {
			totalCents += s.Total.Cents
		}
		for _, cat := range categories {
			row = append(row, avg.Overall[cat].String())
		}
		row = append(row, core.Money{Cents: totalCents / int64(len(summaries))}.String())
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write average row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryFile writes the summary table to path atomically: a rename
// over the old report so readers never see a half-written file.
func WriteSummaryFile(path string, summaries []core.MonthlySummary, categories []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".summary-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSummaryCSV(tmp, summaries, categories); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}
