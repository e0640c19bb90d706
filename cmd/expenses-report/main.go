package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/DanielSkala/gold-price-scraper/internal/bankcsv"
	"github.com/DanielSkala/gold-price-scraper/internal/config"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
	"github.com/DanielSkala/gold-price-scraper/internal/export"
	applog "github.com/DanielSkala/gold-price-scraper/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New("expenses-report")
	applog.SetDefault(logger)

	var (
		dir = flag.String("dir", "", "statements directory (default: STATEMENTS_DIR)")
		out = flag.String("out", "", "also write the monthly table as CSV to this path")
	)
	flag.Parse()

	cfg := config.Load()
	if *dir == "" {
		*dir = cfg.StatementsDir
	}

	rules := core.DefaultRuleset()
	if cfg.RulesPath != "" {
		var err error
		rules, err = core.LoadRuleset(cfg.RulesPath)
		if err != nil {
			logger.Error("Failed to load category rules", "error", err, "path", cfg.RulesPath)
			os.Exit(1)
		}
	}

	res, err := bankcsv.ParseDir(*dir, rules)
	if err != nil {
		logger.Error("Failed to parse statements", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if res.Skipped > 0 {
		logger.Warn("Skipped malformed statement rows", "skipped", res.Skipped)
	}

	summaries := core.Aggregate(res.Transactions)
	categories := rules.Categories()

	printTransactions(res.Transactions)
	printMonthlyTable(summaries, categories)

	if *out != "" {
		if err := export.WriteSummaryFile(*out, summaries, categories); err != nil {
			logger.Error("Failed to write summary CSV", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("Summary CSV written", "path", *out)
	}
}

func printTransactions(txs []core.Transaction) {
	fmt.Println("\n=== Detailed Transactions ===")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tMerchant\tAmount\tCategory")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			tx.Date.Format("2006-01-02"), tx.Merchant, tx.Amount, tx.Category)
	}
	w.Flush()
}

func printMonthlyTable(summaries []core.MonthlySummary, categories []string) {
	fmt.Println("\n=== Monthly Expenses by Category ===")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "Month")
	for _, cat := range categories {
		fmt.Fprintf(w, "\t%s", cat)
	}
	fmt.Fprintln(w, "\tMonthly Total")

	for _, s := range summaries {
		fmt.Fprint(w, s.Key())
		for _, cat := range categories {
			fmt.Fprintf(w, "\t%s", s.CategorySum(cat))
		}
		fmt.Fprintf(w, "\t%s\n", s.Total)
	}

	if len(summaries) > 0 {
		avg := core.Averages(summaries, categories)
		var totalCents int64
		for _, s := range summaries {
			totalCents += s.Total.Cents
		}
		fmt.Fprint(w, "Average")
		for _, cat := range categories {
			fmt.Fprintf(w, "\t%s", avg.Overall[cat])
		}
		fmt.Fprintf(w, "\t%s\n", core.Money{Cents: totalCents / int64(len(summaries))})
	}
	w.Flush()
}
