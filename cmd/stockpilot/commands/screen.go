package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockpilot/internal/contracts"
)

var screenUniverse string

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen the universe and print the diagnostic table",
	Long: `Runs the screening stage only and prints a per-ticker diagnostic
table. Nothing is dispatched or persisted.

Example:
  stockpilot screen
  stockpilot screen --universe AAPL,MSFT,NVDA`,
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.Flags().StringVar(&screenUniverse, "universe", "", "comma-separated tickers (overrides UNIVERSE)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if screenUniverse != "" {
		cfg.Pipeline.Universe = splitTickers(screenUniverse)
	}

	pipe := buildPipeline(cfg, nil, log, nil)
	report := pipe.Screen(context.Background(), pipelineOptions(cfg))

	printScreenReport(report, len(cfg.Pipeline.Universe))
	return nil
}

func printScreenReport(report *contracts.ScreenReport, totalInput int) {
	fmt.Println("=== Screening Report ===")
	fmt.Printf("  %-8s %12s  %-12s %s\n", "TICKER", "CLOSE", "TREND", "PASSED")
	for _, res := range report.Results {
		passed := "no"
		if res.Passed {
			passed = "yes"
		}
		fmt.Printf("  %-8s %12.2f  %-12s %s\n", res.Ticker, res.LatestClose, res.Trend, passed)
	}

	fmt.Printf("\n  Input: %d  Evaluated: %d  Passed: %d\n",
		totalInput, len(report.Results), len(report.Candidates))

	if len(report.Rejections) > 0 {
		var parts []string
		for reason, count := range report.Rejections {
			parts = append(parts, fmt.Sprintf("%s=%d", reason, count))
		}
		fmt.Printf("  Rejections: %s\n", strings.Join(parts, ", "))
	}

	if report.Fallback {
		fmt.Printf("  No ticker passed; falling back to: %s\n", strings.Join(report.Candidates, ", "))
	} else {
		fmt.Printf("  Candidates: %s\n", strings.Join(report.Candidates, ", "))
	}
}
