// Package services holds the application services that tie parsing, storage
// and messaging together.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/DanielSkala/gold-price-scraper/internal/bankcsv"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

type (
	// ImportStore persists a parsed statement.
	ImportStore interface {
		RecordImport(ctx context.Context, filename string, txs []core.Transaction, skipped int) (int64, error)
	}

	// ImportPublisher notifies downstream consumers that an import landed.
	ImportPublisher interface {
		PublishImportCompleted(ctx context.Context, importID int64, rows, skipped int) error
	}
)

// ImportResult reports one imported statement file.
type ImportResult struct {
	ImportID int64
	File     string
	Rows     int
	Skipped  int
}

// ImportService parses statement CSVs, stores the categorized transactions
// and publishes an import notification. The publisher is optional: without
// one the import still lands, the export just waits for the next run.
type ImportService struct {
	store     ImportStore
	publisher ImportPublisher
	rules     core.Ruleset
}

func NewImportService(store ImportStore, publisher ImportPublisher, rules core.Ruleset) *ImportService {
	return &ImportService{store: store, publisher: publisher, rules: rules}
}

// ImportFile parses and stores a single statement file.
func (s *ImportService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	res, err := bankcsv.ParseFile(path, s.rules)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse statement %s: %w", path, err)
	}

	importID, err := s.store.RecordImport(ctx, filepath.Base(path), res.Transactions, res.Skipped)
	if err != nil {
		return ImportResult{}, fmt.Errorf("record import %s: %w", path, err)
	}

	result := ImportResult{
		ImportID: importID,
		File:     filepath.Base(path),
		Rows:     len(res.Transactions),
		Skipped:  res.Skipped,
	}

	if s.publisher != nil {
		if err := s.publisher.PublishImportCompleted(ctx, importID, result.Rows, result.Skipped); err != nil {
			// The import is durable; a lost notification only delays the
			// export until the next run.
			slog.WarnContext(ctx, "Failed to publish import notification",
				"import_id", importID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Statement imported",
		"import_id", importID, "file", result.File,
		"rows", result.Rows, "skipped", result.Skipped)
	return result, nil
}

// ImportDir imports every *.csv file in a directory, in name order. Files
// that fail to parse are reported and skipped; the rest still import.
func (s *ImportService) ImportDir(ctx context.Context, dir string) ([]ImportResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list statements in %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no statement files in %s", dir)
	}
	sort.Strings(files)

	var results []ImportResult
	for _, file := range files {
		result, err := s.ImportFile(ctx, file)
		if err != nil {
			slog.ErrorContext(ctx, "Statement import failed", "file", file, "error", err)
			continue
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("all %d statement files failed to import", len(files))
	}
	return results, nil
}
