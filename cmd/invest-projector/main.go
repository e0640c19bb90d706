package main

import (
	"flag"
	"fmt"
	"os"

	applog "github.com/DanielSkala/gold-price-scraper/internal/log"

	"github.com/DanielSkala/gold-price-scraper/internal/invest"
)

func main() {
	logger := applog.New("invest-projector")
	applog.SetDefault(logger)

	var (
		monthly     = flag.Float64("monthly", 3000, "monthly investment in EUR")
		rate        = flag.Float64("rate", 0.10, "annual interest rate, e.g. 0.10 for 10%")
		years       = flag.Int("years", 15, "investment horizon in years")
		raise       = flag.Bool("raise", false, "grow the contribution each year by inflation+raise")
		inflation   = flag.Float64("inflation", 0.02, "annual inflation rate used with -raise")
		annualRaise = flag.Float64("annual-raise", 0.05, "annual salary raise used with -raise")
		out         = flag.String("out", "", "write the projection as CSV to this path")

		principal    = flag.Float64("mortgage-principal", 0, "also print the monthly annuity for this mortgage principal")
		mortgageRate = flag.Float64("mortgage-rate", 3.59, "mortgage annual rate in percent")
		mortgageYrs  = flag.Int("mortgage-years", 30, "mortgage duration in years")
	)
	flag.Parse()

	plan := invest.Plan{
		MonthlyInvestment:  *monthly,
		AnnualInterestRate: *rate,
		Years:              *years,
		Raise:              *raise,
		InflationRate:      *inflation,
		AnnualRaise:        *annualRaise,
	}

	results, err := invest.Simulate(plan)
	if err != nil {
		logger.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Monthly %.2f EUR at %.1f%% for %d years (raise: %v)\n\n",
		plan.MonthlyInvestment, plan.AnnualInterestRate*100, plan.Years, plan.Raise)
	for _, r := range results {
		fmt.Printf("Year %2d: %12.2f EUR\n", r.Year, r.Balance)
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("Failed to create output file", "path", *out, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := invest.WriteCSV(f, results); err != nil {
			logger.Error("Failed to write projection CSV", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("Projection written", "path", *out, "years", len(results))
	}

	if *principal > 0 {
		payment := invest.MonthlyPayment(*principal, *mortgageRate, *mortgageYrs)
		fmt.Printf("\nMortgage %.2f EUR at %.2f%% over %d years: %.2f EUR/month\n",
			*principal, *mortgageRate, *mortgageYrs, payment)
	}
}
