package sentiment

import (
	"fmt"
	"strings"

	"stockpilot/internal/contracts"
)

// FormatReport renders a summary as the plain-text fragment that is fed
// to the decision engine and shown by the CLI.
func FormatReport(s *contracts.SentimentSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Social Sentiment for $%s\n", s.Ticker)

	if s.NoSignal {
		b.WriteString("No recent messages found. Low trader interest; social momentum is not a factor.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Messages analyzed: %d (%s activity)\n", s.MessageCount, strings.ToLower(string(s.Activity)))
	fmt.Fprintf(&b, "Overall: %s (score %.3f on a -1.0..+1.0 scale, trend %s)\n", s.Label, s.AverageScore, s.Trend)
	fmt.Fprintf(&b, "Breakdown: %d bullish (%.1f%%), %d neutral, %d bearish (%.1f%%)\n",
		s.BullishCount, s.BullishFraction()*100,
		s.NeutralCount,
		s.BearishCount, s.BearishFraction()*100,
	)

	if s.BearishCount > 0 {
		fmt.Fprintf(&b, "Bull/bear ratio: %.2f:1\n", float64(s.BullishCount)/float64(s.BearishCount))
	} else if s.BullishCount > 0 {
		b.WriteString("Bull/bear ratio: all bulls\n")
	}

	if len(s.TopInfluencers) > 0 {
		b.WriteString("Top influencers:\n")
		for i, inf := range s.TopInfluencers {
			tag := string(inf.Sentiment)
			if tag == "" {
				tag = "Untagged"
			}
			fmt.Fprintf(&b, "  %d. @%s (%d followers) - %s\n", i+1, inf.Author, inf.Followers, tag)
		}
	}

	return b.String()
}
