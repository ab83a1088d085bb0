package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockpilot/internal/sentiment"
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment [ticker]",
	Short: "Fetch and summarize social sentiment for one ticker",
	Long: `Fetches the recent social window for a ticker, aggregates it, and
prints the sentiment report. Nothing is persisted.

Example:
  stockpilot sentiment TSLA`,
	Args: cobra.ExactArgs(1),
	RunE: runSentiment,
}

func init() {
	rootCmd.AddCommand(sentimentCmd)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	ctx := context.Background()

	feed := buildFeed(cfg, feedClient(cfg, log), log)
	messages, err := feed.FetchMessages(ctx, ticker, cfg.Pipeline.MessageCap)
	if err != nil {
		return fmt.Errorf("failed to fetch messages for %s: %w", ticker, err)
	}

	agg := sentiment.NewAggregator(sentiment.NewVaderScorer())
	summary := agg.Aggregate(ticker, messages, cfg.Pipeline.MessageCap)

	fmt.Print(sentiment.FormatReport(&summary))
	return nil
}
