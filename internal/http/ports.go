package http

import (
	"context"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// TransactionSource is the dashboard's inbound data port. Both the CSV
// directory source and the SQLite repository implement it.
type TransactionSource interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}
