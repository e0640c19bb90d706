// Package bankcsv parses Tatra banka credit-card statement exports.
//
// The bank ships one CSV per statement period. Rows are wide (11+ columns)
// and only four columns matter here: transaction type, amount in EUR, booking
// date and merchant text. Malformed rows are counted and skipped, never
// fatal; a whole statement of garbage still parses to zero transactions.
package bankcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

// Statement column layout as exported by the bank.
const (
	colTransactionType = 0
	colAmountEUR       = 2
	colDate            = 6
	colMerchant        = 10

	minColumns = 11
	dateLayout = "02.01.2006"
)

// creditType marks refund rows, which the statement report ignores.
const creditType = "kredit"

// Result carries the parsed transactions plus the count of rows that could
// not be parsed.
type Result struct {
	Transactions []core.Transaction
	Skipped      int
}

// Merge appends another result into r.
func (r *Result) Merge(other Result) {
	r.Transactions = append(r.Transactions, other.Transactions...)
	r.Skipped += other.Skipped
}

// Parse reads one statement. The first row is assumed to be a header. Rows
// with a short column count, an unparsable date or an unparsable amount are
// skipped and counted. Each transaction is labeled through the ruleset.
func Parse(r io.Reader, rules core.Ruleset) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // statements are ragged

	var res Result
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv-level damage on a single line counts as a skipped row
			if _, ok := err.(*csv.ParseError); ok {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("read statement: %w", err)
		}
		if first {
			first = false
			continue
		}
		if len(row) < minColumns {
			res.Skipped++
			continue
		}

		if strings.EqualFold(strings.TrimSpace(row[colTransactionType]), creditType) {
			continue // refund, not an expense
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(row[colDate]))
		if err != nil {
			res.Skipped++
			continue
		}
		cents, err := core.ParseAmountCents(row[colAmountEUR])
		if err != nil {
			res.Skipped++
			continue
		}

		merchant := strings.TrimSpace(row[colMerchant])
		res.Transactions = append(res.Transactions, core.Transaction{
			Date:     core.Date{Time: date},
			Merchant: merchant,
			Amount:   core.Money{Cents: cents},
			Category: rules.Categorize(merchant),
		})
	}
	return res, nil
}

// ParseFile parses a single statement file.
func ParseFile(path string, rules core.Ruleset) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()
	res, err := Parse(f, rules)
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}

// ParseDir parses every *.csv file in dir, in name order. A missing or empty
// directory is an error; a bad row inside a file is not.
func ParseDir(dir string, rules core.Ruleset) (Result, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return Result{}, fmt.Errorf("scan statements dir: %w", err)
	}
	if len(matches) == 0 {
		return Result{}, fmt.Errorf("no statement files found in %s", dir)
	}
	sort.Strings(matches)

	var res Result
	for _, path := range matches {
		fileRes, err := ParseFile(path, rules)
		if err != nil {
			return res, err
		}
		res.Merge(fileRes)
	}
	return res, nil
}
