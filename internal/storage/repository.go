// Package storage persists imported statement transactions and the gold
// premium history in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DanielSkala/gold-price-scraper/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordImport stores one statement import with its transactions in a single
// transaction and returns the import ID.
func (r *SQLiteRepository) RecordImport(ctx context.Context, filename string, txs []core.Transaction, skipped int) (int64, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`INSERT INTO imports (filename, row_count, skipped) VALUES (?, ?, ?)`,
		filename, len(txs), skipped)
	if err != nil {
		return 0, fmt.Errorf("insert import: %w", err)
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("import id: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO transactions (import_id, tx_date, merchant, amount_cents, category)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx,
			importID, tx.Date.Format(dateLayout), tx.Merchant, tx.Amount.Cents, tx.Category); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Statement import recorded",
		"import_id", importID, "filename", filename,
		"rows", len(txs), "skipped", skipped)
	return importID, nil
}

// ListTransactions returns all stored transactions ordered by date.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tx_date, merchant, amount_cents, category
		 FROM transactions ORDER BY tx_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactionsByMonth returns the transactions of one calendar month.
func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, key core.MonthKey) ([]core.Transaction, error) {
	prefix := key.String() + "-%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT tx_date, merchant, amount_cents, category
		 FROM transactions WHERE tx_date LIKE ? ORDER BY tx_date, id`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query month transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			dateStr  string
			merchant string
			cents    int64
			category string
		)
		if err := rows.Scan(&dateStr, &merchant, &cents, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		out = append(out, core.Transaction{
			Date:     core.Date{Time: date},
			Merchant: merchant,
			Amount:   core.Money{Cents: cents},
			Category: category,
		})
	}
	return out, rows.Err()
}

// PremiumRecord is one scraped bar observation.
type PremiumRecord struct {
	RunDate        time.Time
	WeightGrams    float64
	PriceEUR       *float64 // nil when the bar was unavailable
	PremiumPercent *float64
}

// AppendPremiums stores one scraper run.
func (r *SQLiteRepository) AppendPremiums(ctx context.Context, records []PremiumRecord) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin premium append: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO premium_history (run_date, weight_grams, price_eur, premium_percent)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare premium insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.RunDate.Format(dateLayout), rec.WeightGrams, rec.PriceEUR, rec.PremiumPercent); err != nil {
			return fmt.Errorf("insert premium record: %w", err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit premium append: %w", err)
	}
	return nil
}

// AveragePremiums returns the historical average premium per bar weight,
// ignoring runs where the bar was unavailable.
func (r *SQLiteRepository) AveragePremiums(ctx context.Context) (map[float64]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT weight_grams, AVG(premium_percent)
		 FROM premium_history
		 WHERE premium_percent IS NOT NULL
		 GROUP BY weight_grams`)
	if err != nil {
		return nil, fmt.Errorf("query premium averages: %w", err)
	}
	defer rows.Close()

	out := make(map[float64]float64)
	for rows.Next() {
		var weight, avg float64
		if err := rows.Scan(&weight, &avg); err != nil {
			return nil, fmt.Errorf("scan premium average: %w", err)
		}
		out[weight] = avg
	}
	return out, rows.Err()
}
