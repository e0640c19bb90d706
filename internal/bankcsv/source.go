package bankcsv

import (
	"context"
	"log/slog"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// DirSource serves transactions straight from a directory of statement
// files. Every call reparses the CSVs, so edits on disk show up on the next
// request without any invalidation logic.
type DirSource struct {
	Dir   string
	Rules core.Ruleset
}

// ListTransactions implements the dashboard's transaction source port.
func (s DirSource) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	res, err := ParseDir(s.Dir, s.Rules)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed statement rows",
			"dir", s.Dir, "skipped", res.Skipped, "parsed", len(res.Transactions))
	}
	return res.Transactions, nil
}
