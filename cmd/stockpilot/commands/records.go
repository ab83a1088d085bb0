package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockpilot/internal/contracts"
)

var (
	recordsTicker string
	recordsLimit  int
	recordsFull   bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List persisted analysis records",
	Long: `Lists the newest analysis records, optionally filtered to one
ticker. Requires DATABASE_URL.

Example:
  stockpilot records
  stockpilot records --ticker AAPL --limit 5
  stockpilot records --ticker AAPL --full`,
	RunE: runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)

	recordsCmd.Flags().StringVar(&recordsTicker, "ticker", "", "filter to one ticker")
	recordsCmd.Flags().IntVar(&recordsLimit, "limit", 20, "max records to list")
	recordsCmd.Flags().BoolVar(&recordsFull, "full", false, "print full reports, not just the summary line")
}

func runRecords(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, repo, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var records []contracts.AnalysisRecord
	if recordsTicker != "" {
		records, err = repo.ListByTicker(ctx, strings.ToUpper(recordsTicker), recordsLimit)
	} else {
		records, err = repo.ListRecent(ctx, recordsLimit)
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Printf("  %-6s %-20s %-8s %s\n", "ID", "TIMESTAMP", "TICKER", "DECISION")
	for _, rec := range records {
		fmt.Printf("  %-6d %-20s %-8s %s\n",
			rec.ID, rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Ticker, rec.Decision)
		if recordsFull {
			fmt.Println()
			fmt.Println(rec.FullReport)
			fmt.Println(strings.Repeat("-", 60))
		}
	}
	return nil
}
