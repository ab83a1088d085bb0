package store

import (
	"testing"

	"stockpilot/internal/contracts"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   contracts.Decision
	}{
		{"buy", "Strong setup.\nDECISION: BUY", contracts.DecisionBuy},
		{"sell", "Breaking down.\nDECISION: SELL", contracts.DecisionSell},
		{"hold", "Mixed signals.\nDECISION: HOLD", contracts.DecisionHold},
		{"no marker", "Inconclusive analysis.", contracts.DecisionHold},
		{"empty", "", contracts.DecisionHold},
		{"buy wins over sell", "DECISION: BUY mentioned, though DECISION: SELL also appears", contracts.DecisionBuy},
		{"marker mid-report", "Summary.\nDECISION: SELL\nAppendix follows.", contracts.DecisionSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDecision(tt.report); got != tt.want {
				t.Errorf("ParseDecision() = %v, want %v", got, tt.want)
			}
		})
	}
}
