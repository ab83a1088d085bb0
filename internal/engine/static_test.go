package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/contracts"
)

func TestStaticAnalyzeDecisions(t *testing.T) {
	tests := []struct {
		name  string
		label contracts.SentimentLabel
		want  contracts.Decision
	}{
		{"very bullish buys", contracts.LabelVeryBullish, contracts.DecisionBuy},
		{"bullish buys", contracts.LabelBullish, contracts.DecisionBuy},
		{"neutral holds", contracts.LabelNeutral, contracts.DecisionHold},
		{"bearish sells", contracts.LabelBearish, contracts.DecisionSell},
		{"very bearish sells", contracts.LabelVeryBearish, contracts.DecisionSell},
	}

	e := NewStatic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := e.Analyze(context.Background(), contracts.AnalysisRequest{
				Ticker:      "AAPL",
				AccountSize: "10000",
				Sentiment: &contracts.SentimentSummary{
					Ticker:       "AAPL",
					MessageCount: 20,
					Label:        tt.label,
				},
			})
			require.NoError(t, err)
			assert.Contains(t, report, "DECISION: "+string(tt.want))
		})
	}
}

func TestStaticAnalyzeNoSignalHolds(t *testing.T) {
	e := NewStatic()

	report, err := e.Analyze(context.Background(), contracts.AnalysisRequest{
		Ticker: "AAPL",
		Sentiment: &contracts.SentimentSummary{
			Ticker:   "AAPL",
			Label:    contracts.LabelVeryBullish,
			NoSignal: true,
		},
	})

	require.NoError(t, err)
	assert.Contains(t, report, "DECISION: HOLD")
}

func TestStaticAnalyzeEmbedsSentimentReport(t *testing.T) {
	e := NewStatic()

	report, err := e.Analyze(context.Background(), contracts.AnalysisRequest{
		Ticker:          "NVDA",
		SentimentReport: "Social Sentiment for $NVDA\n",
	})

	require.NoError(t, err)
	assert.Contains(t, report, "Social Sentiment for $NVDA")
}
