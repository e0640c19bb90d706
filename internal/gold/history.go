package gold

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// notAvailable marks a sold-out bar in the history file.
const notAvailable = "N/A"

// History is the cumulative premium CSV: one row per run, one column per
// bar weight, last column the run date. Column order must match the bar
// list across runs for the averages to line up.
type History struct {
	Path string
}

// Append writes one run as a row. Premiums are recorded with two decimals,
// unavailable bars as N/A.
func (h History) Append(points []PremiumPoint, runDate time.Time) error {
	f, err := os.OpenFile(h.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open premium history: %w", err)
	}
	defer f.Close()

	cells := make([]string, 0, len(points)+1)
	for _, p := range points {
		if p.Available {
			cells = append(cells, strconv.FormatFloat(p.Premium, 'f', 2, 64))
		} else {
			cells = append(cells, notAvailable)
		}
	}
	cells = append(cells, runDate.Format("2006-01-02"))

	if _, err := f.WriteString(strings.Join(cells, ", ") + "\n"); err != nil {
		return fmt.Errorf("append premium history: %w", err)
	}
	return nil
}

// Averages computes the per-column average premium over all recorded runs,
// ignoring N/A cells. Columns with no numeric value at all average to nil.
// A missing history file yields an empty result, not an error: the first run
// has nothing to average.
func (h History) Averages() ([]*float64, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open premium history: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var sums []float64
	var counts []int
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if len(row) < 2 {
			continue
		}
		row = row[:len(row)-1] // drop the trailing date column
		for i, cell := range row {
			for i >= len(sums) {
				sums = append(sums, 0)
				counts = append(counts, 0)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue // N/A or damage; skip the cell, keep the column
			}
			sums[i] += v
			counts[i]++
		}
	}

	out := make([]*float64, len(sums))
	for i := range sums {
		if counts[i] > 0 {
			avg := sums[i] / float64(counts[i])
			out[i] = &avg
		}
	}
	return out, nil
}
