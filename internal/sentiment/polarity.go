package sentiment

import "github.com/jonreiter/govader"

// PolarityScorer derives a continuous polarity in [-1, 1] from free
// text. Used for messages that carry no explicit sentiment tag.
type PolarityScorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the VADER lexicon. Lexicon-based, so it
// needs no network access and is deterministic for a given input.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a new VADER-backed scorer.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of text, clamped to [-1, 1].
func (s *VaderScorer) Score(text string) float64 {
	if text == "" {
		return 0
	}

	compound := s.analyzer.PolarityScores(text).Compound
	if compound > 1 {
		return 1
	}
	if compound < -1 {
		return -1
	}
	return compound
}
