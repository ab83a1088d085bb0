package store

import (
	"strings"

	"stockpilot/internal/contracts"
)

// ParseDecision extracts the trading decision from a report. BUY is
// checked before SELL; a report mentioning neither marker reads HOLD.
func ParseDecision(report string) contracts.Decision {
	switch {
	case strings.Contains(report, "DECISION: BUY"):
		return contracts.DecisionBuy
	case strings.Contains(report, "DECISION: SELL"):
		return contracts.DecisionSell
	default:
		return contracts.DecisionHold
	}
}
