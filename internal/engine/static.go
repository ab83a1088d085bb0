package engine

import (
	"context"
	"fmt"
	"strings"

	"stockpilot/internal/contracts"
)

// StaticEngine produces a deterministic, templated report driven
// entirely by the sentiment summary. It needs no network or API key,
// which makes it the default provider and the one used in tests and
// dry runs.
type StaticEngine struct{}

// NewStatic creates a static engine.
func NewStatic() *StaticEngine {
	return &StaticEngine{}
}

// Analyze derives a decision from the sentiment label: bullish labels
// map to BUY, bearish labels to SELL, everything else to HOLD.
func (e *StaticEngine) Analyze(_ context.Context, req contracts.AnalysisRequest) (string, error) {
	decision := contracts.DecisionHold
	rationale := "Sentiment is inconclusive; staying flat."

	if req.Sentiment != nil && !req.Sentiment.NoSignal {
		switch req.Sentiment.Label {
		case contracts.LabelVeryBullish, contracts.LabelBullish:
			decision = contracts.DecisionBuy
			rationale = fmt.Sprintf("Sentiment reads %s across %d messages; momentum favors an entry.",
				req.Sentiment.Label, req.Sentiment.MessageCount)
		case contracts.LabelVeryBearish, contracts.LabelBearish:
			decision = contracts.DecisionSell
			rationale = fmt.Sprintf("Sentiment reads %s across %d messages; crowd positioning argues for an exit.",
				req.Sentiment.Label, req.Sentiment.MessageCount)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trade Analysis: %s\n", req.Ticker)
	fmt.Fprintf(&b, "Account size: $%s | Period: %s\n\n", req.AccountSize, req.AnalysisPeriod)
	if req.SentimentReport != "" {
		b.WriteString(req.SentimentReport)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Assessment: %s\n\n", rationale)
	fmt.Fprintf(&b, "DECISION: %s", decision)

	return b.String(), nil
}
