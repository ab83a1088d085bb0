package contracts

import "context"

// BarProvider supplies OHLCV history for a ticker. Fail-fast: a fetch
// error excludes the ticker from screening, it is never retried here.
type BarProvider interface {
	FetchBars(ctx context.Context, ticker, period string) ([]Bar, error)
}

// SocialFeed supplies raw social messages for a ticker,
// most-recent-first, at most limit entries.
type SocialFeed interface {
	FetchMessages(ctx context.Context, ticker string, limit int) ([]SocialMessage, error)
}

// DecisionEngine is the opaque analysis collaborator. Whatever
// multi-step reasoning happens behind it is out of scope; the contract
// is one request in, one natural-language report out.
type DecisionEngine interface {
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

// ResultStore persists one AnalysisRecord per completed job.
type ResultStore interface {
	Persist(ctx context.Context, ticker, report string) (*AnalysisRecord, error)
}

// ScreenArchiver records screening run snapshots for later inspection.
type ScreenArchiver interface {
	SaveScreeningRun(ctx context.Context, totalInput int, report *ScreenReport) error
}
