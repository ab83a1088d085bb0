package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stockpilot/internal/contracts"
	"stockpilot/internal/store"
)

var (
	runUniverse    string
	runConcurrency int
	runNoPersist   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full pipeline cycle: screen, analyze, persist",
	Long: `Runs one complete cycle over the configured universe.

The universe is screened on price and volume trend; every surviving
candidate gets a sentiment-informed analysis from the decision engine,
and completed analyses are persisted.

Individual job failures are reported in the summary but do not fail
the command.

Example:
  stockpilot run
  stockpilot run --universe AAPL,MSFT --concurrency 4
  stockpilot run --no-persist`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runUniverse, "universe", "", "comma-separated tickers (overrides UNIVERSE)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "max concurrent analysis jobs (overrides PIPELINE_CONCURRENCY)")
	runCmd.Flags().BoolVar(&runNoPersist, "no-persist", false, "skip the database entirely")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	if runUniverse != "" {
		cfg.Pipeline.Universe = splitTickers(runUniverse)
	}
	if runConcurrency > 0 {
		cfg.Pipeline.Concurrency = runConcurrency
	}

	ctx := context.Background()

	var repo *store.Repository
	if !runNoPersist && cfg.Database.URL != "" {
		db, r, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()
		repo = r
	}

	pipe := buildPipeline(cfg, repo, log, nil)

	result, err := pipe.Run(ctx, pipelineOptions(cfg))
	if err != nil {
		return err
	}

	printScreenReport(result.Screen, len(cfg.Pipeline.Universe))
	fmt.Println()
	printOutcomes(result.Outcomes)
	fmt.Printf("\nCycle finished in %s: %d succeeded, %d failed\n",
		result.Duration.Round(time.Millisecond), result.Succeeded, result.Failed)

	return nil
}

func printOutcomes(outcomes []contracts.Outcome) {
	fmt.Println("=== Analysis Outcomes ===")
	for _, o := range outcomes {
		switch o.Status {
		case contracts.JobSucceeded:
			fmt.Printf("  %-6s %-10s %s\n", o.Ticker, o.Status, o.Duration.Round(time.Millisecond))
		default:
			fmt.Printf("  %-6s %-10s %s\n", o.Ticker, o.Status, o.Err)
		}
	}
}

func splitTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
