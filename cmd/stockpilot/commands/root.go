package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stockpilot",
	Short: "StockPilot - screening and sentiment-driven trade analysis",
	Long: `StockPilot

Screens an equity universe on price and volume trend, aggregates social
sentiment for the survivors, and dispatches each candidate to a
decision engine under a bounded concurrency gate. Completed analyses
are persisted to PostgreSQL.

Examples:
  stockpilot run
  stockpilot screen --universe AAPL,MSFT,NVDA
  stockpilot sentiment TSLA
  stockpilot serve
  stockpilot schedule`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
