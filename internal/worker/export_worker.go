// Package worker consumes import notifications and refreshes the exported
// monthly summaries.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielSkala/gold-price-scraper/internal/amqp"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
	"github.com/DanielSkala/gold-price-scraper/internal/export"
)

// TransactionLister reads the full transaction history from storage.
type TransactionLister interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// ExportWorker recomputes the monthly summary after each import and writes
// it to the report file and, when configured, a Google Sheets tab.
type ExportWorker struct {
	store      TransactionLister
	rules      core.Ruleset
	reportPath string
	sheets     export.SummaryWriter // optional
}

func NewExportWorker(store TransactionLister, rules core.Ruleset, reportPath string, sheets export.SummaryWriter) *ExportWorker {
	return &ExportWorker{
		store:      store,
		rules:      rules,
		reportPath: reportPath,
		sheets:     sheets,
	}
}

// HandleImportMessage processes one import notification. The export is a full
// recomputation, so redelivered messages are harmless.
func (w *ExportWorker) HandleImportMessage(ctx context.Context, msg *amqp.ImportCompletedMessage) error {
	slog.InfoContext(ctx, "Processing import message",
		"import_id", msg.ImportID, "rows", msg.Rows, "skipped", msg.Skipped)
	return w.RunOnce(ctx)
}

// RunOnce recomputes and exports the monthly summary from the full history.
func (w *ExportWorker) RunOnce(ctx context.Context) error {
	txs, err := w.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	summaries := core.Aggregate(txs)
	categories := w.rules.Categories()

	if err := export.WriteSummaryFile(w.reportPath, summaries, categories); err != nil {
		return fmt.Errorf("write summary report: %w", err)
	}
	slog.InfoContext(ctx, "Summary report written",
		"path", w.reportPath, "months", len(summaries), "transactions", len(txs))

	if w.sheets != nil {
		if err := w.sheets.WriteSummary(ctx, summaries, categories); err != nil {
			return fmt.Errorf("export summary to sheets: %w", err)
		}
	}
	return nil
}
