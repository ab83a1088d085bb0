package sentiment

import (
	"sort"

	"stockpilot/internal/contracts"
)

// Scores mapped onto explicit message sentiment tags.
const (
	explicitBullishScore = 0.5
	explicitBearishScore = -0.5
)

// DefaultMessageCap bounds the analysis window when the caller does not
// supply one.
const DefaultMessageCap = 30

// recentWindow is the number of most-recent messages compared against
// the remainder for the trend classification.
const recentWindow = 10

// trendDelta is the minimum mean difference that counts as a move.
const trendDelta = 0.1

// Aggregator converts a bounded window of social messages into a
// SentimentSummary. Pure and side-effect-free: messages are supplied by
// the caller, nothing is cached across calls, and concurrent use is
// safe as long as the scorer is.
type Aggregator struct {
	scorer PolarityScorer
}

// NewAggregator creates an aggregator backed by the given text scorer.
func NewAggregator(scorer PolarityScorer) *Aggregator {
	return &Aggregator{scorer: scorer}
}

// Aggregate summarizes up to limit messages (most-recent-first) for a
// ticker. limit <= 0 selects DefaultMessageCap. An empty window yields
// a no-signal summary; there is never a division by zero.
func (a *Aggregator) Aggregate(ticker string, messages []contracts.SocialMessage, limit int) contracts.SentimentSummary {
	if limit <= 0 {
		limit = DefaultMessageCap
	}
	if len(messages) > limit {
		messages = messages[:limit]
	}

	summary := contracts.SentimentSummary{
		Ticker:         ticker,
		TopInfluencers: []contracts.Influencer{},
	}

	if len(messages) == 0 {
		summary.Label = contracts.LabelNeutral
		summary.Trend = contracts.TrendInsufficientData
		summary.Activity = contracts.ActivityLow
		summary.NoSignal = true
		return summary
	}

	summary.MessageCount = len(messages)

	scores := make([]float64, 0, len(messages))
	for _, msg := range messages {
		switch msg.Sentiment {
		case contracts.SentimentBullish:
			summary.BullishCount++
			scores = append(scores, explicitBullishScore)
		case contracts.SentimentBearish:
			summary.BearishCount++
			scores = append(scores, explicitBearishScore)
		default:
			// Untagged messages count as neutral but still contribute
			// a text-derived polarity to the average.
			summary.NeutralCount++
			scores = append(scores, a.scorer.Score(msg.Body))
		}
	}

	summary.AverageScore = mean(scores)
	summary.Trend = classifyTrend(scores)
	summary.Label = classifyLabel(&summary)
	summary.Activity = classifyActivity(summary.MessageCount)
	summary.TopInfluencers = topInfluencers(messages, 3)

	return summary
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// classifyTrend compares the mean of the recent window against the
// remainder. Scores arrive most-recent-first.
func classifyTrend(scores []float64) contracts.SentimentTrend {
	if len(scores) < recentWindow {
		return contracts.TrendInsufficientData
	}

	recent := mean(scores[:recentWindow])
	older := recent
	if len(scores) > recentWindow {
		older = mean(scores[recentWindow:])
	}

	switch {
	case recent > older+trendDelta:
		return contracts.TrendImproving
	case recent < older-trendDelta:
		return contracts.TrendDeclining
	default:
		return contracts.TrendStable
	}
}

// classifyLabel applies the threshold ladder in priority order; the
// first match wins.
func classifyLabel(s *contracts.SentimentSummary) contracts.SentimentLabel {
	avg := s.AverageScore
	bullish := s.BullishFraction()
	bearish := s.BearishFraction()

	switch {
	case avg > 0.3 || bullish > 0.6:
		return contracts.LabelVeryBullish
	case avg > 0.1 || bullish > 0.5:
		return contracts.LabelBullish
	case avg > -0.1:
		return contracts.LabelNeutral
	case avg > -0.3 || bearish > 0.5:
		return contracts.LabelBearish
	default:
		return contracts.LabelVeryBearish
	}
}

func classifyActivity(count int) contracts.ActivityLabel {
	switch {
	case count >= 25:
		return contracts.ActivityHigh
	case count >= 15:
		return contracts.ActivityModerate
	default:
		return contracts.ActivityLow
	}
}

// topInfluencers picks the n messages with the highest follower counts,
// descending, ties broken by original feed order.
func topInfluencers(messages []contracts.SocialMessage, n int) []contracts.Influencer {
	ranked := make([]contracts.SocialMessage, len(messages))
	copy(ranked, messages)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AuthorFollowers > ranked[j].AuthorFollowers
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]contracts.Influencer, len(ranked))
	for i, msg := range ranked {
		out[i] = contracts.Influencer{
			Author:    msg.Author,
			Followers: msg.AuthorFollowers,
			Sentiment: msg.Sentiment,
		}
	}
	return out
}
