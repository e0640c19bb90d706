package export

import (
	"context"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// SummaryWriter pushes the monthly summary table to an external destination.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, summaries []core.MonthlySummary, categories []string) error
}
