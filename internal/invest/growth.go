// Package invest projects the growth of recurring monthly investments and
// provides the mortgage annuity formula used by the rate tracker.
package invest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// YearBalance is the projected balance at the end of a year.
type YearBalance struct {
	Year    int
	Balance float64
}

// Plan describes a projection. InflationRate and AnnualRaise only apply when
// Raise is true; together they scale the contribution at each new year.
type Plan struct {
	MonthlyInvestment  float64
	AnnualInterestRate float64 // e.g. 0.10 for 10%
	Years              int
	Raise              bool
	InflationRate      float64 // default 0.02
	AnnualRaise        float64 // default 0.05
}

// Simulate compounds the balance monthly using the effective monthly rate
// (1+annual)^(1/12)-1 and deposits the contribution each month. With Raise
// enabled the contribution grows by inflation+raise at the start of every
// year after the first. Returns one balance per completed year.
func Simulate(p Plan) ([]YearBalance, error) {
	if p.Years <= 0 {
		return nil, fmt.Errorf("invalid duration: %d years", p.Years)
	}
	if p.MonthlyInvestment < 0 {
		return nil, fmt.Errorf("invalid monthly investment: %v", p.MonthlyInvestment)
	}

	monthlyRate := math.Pow(1+p.AnnualInterestRate, 1.0/12) - 1
	balance := 0.0
	contribution := p.MonthlyInvestment
	results := make([]YearBalance, 0, p.Years)

	for month := 1; month <= p.Years*12; month++ {
		if p.Raise && month > 1 && month%12 == 1 {
			contribution *= 1 + p.InflationRate + p.AnnualRaise
		}
		balance = balance*(1+monthlyRate) + contribution
		if month%12 == 0 {
			results = append(results, YearBalance{Year: month / 12, Balance: balance})
		}
	}
	return results, nil
}

// MonthlyPayment computes the monthly annuity for a mortgage.
// annualRatePercent is e.g. 3.59 for 3.59%. A zero rate degrades to simple
// division.
func MonthlyPayment(principal, annualRatePercent float64, years int) float64 {
	monthlyRate := annualRatePercent / 100 / 12
	n := float64(years * 12)
	if monthlyRate == 0 {
		return principal / n
	}
	pow := math.Pow(1+monthlyRate, n)
	return principal * monthlyRate * pow / (pow - 1)
}

// WriteCSV writes the projection as "Year,Balance (EUR)" rows with balances
// rounded to cents.
func WriteCSV(w io.Writer, results []YearBalance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Year", "Balance (EUR)"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.FormatFloat(math.Round(r.Balance*100)/100, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write year %d: %w", r.Year, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
