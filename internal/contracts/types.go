package contracts

import "time"

// Bar is a single OHLCV bar. Series are chronologically ascending with
// no duplicate timestamps; they are owned transiently by a screening
// call and never persisted.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TrendLabel classifies a screened ticker. For passing tickers it is
// Bullish or Recovering; for rejected tickers it names the first
// failing predicate.
type TrendLabel string

const (
	TrendBullish    TrendLabel = "Bullish"
	TrendRecovering TrendLabel = "Recovering"
	TrendDowntrend  TrendLabel = "Downtrend"
	TrendLowVolume  TrendLabel = "LowVolume"
	TrendPennyStock TrendLabel = "PennyStock"
)

// ScreenResult is one row of the screening diagnostic table.
// Immutable after creation.
type ScreenResult struct {
	Ticker      string     `json:"ticker"`
	LatestClose float64    `json:"latest_close"`
	Trend       TrendLabel `json:"trend_label"`
	Passed      bool       `json:"passed"`
}

// ScreenReport is the full output of one screening run: the ordered
// diagnostic table, the candidate list and rejection accounting.
type ScreenReport struct {
	Results    []ScreenResult `json:"results"`
	Candidates []string       `json:"candidates"`
	Rejections map[string]int `json:"rejections"`
	// Fallback is true when no ticker passed and the fixed fallback
	// set was substituted.
	Fallback bool `json:"fallback"`
}

// ExplicitSentiment is the sentiment tag a social message may carry.
// Empty means the message has no explicit tag.
type ExplicitSentiment string

const (
	SentimentBullish ExplicitSentiment = "Bullish"
	SentimentBearish ExplicitSentiment = "Bearish"
	SentimentNone    ExplicitSentiment = ""
)

// SocialMessage is one raw social-feed message, read-only to the
// aggregator. Feeds deliver messages most-recent-first.
type SocialMessage struct {
	ID              string            `json:"id"`
	Body            string            `json:"body"`
	Sentiment       ExplicitSentiment `json:"sentiment,omitempty"`
	Author          string            `json:"author"`
	AuthorFollowers int               `json:"author_followers"`
	CreatedAt       time.Time         `json:"created_at"`
}

// SentimentTrend compares recent message sentiment against older.
type SentimentTrend string

const (
	TrendImproving        SentimentTrend = "Improving"
	TrendDeclining        SentimentTrend = "Declining"
	TrendStable           SentimentTrend = "Stable"
	TrendInsufficientData SentimentTrend = "InsufficientData"
)

// SentimentLabel is the categorical summary of a message window.
type SentimentLabel string

const (
	LabelVeryBullish SentimentLabel = "VeryBullish"
	LabelBullish     SentimentLabel = "Bullish"
	LabelNeutral     SentimentLabel = "Neutral"
	LabelBearish     SentimentLabel = "Bearish"
	LabelVeryBearish SentimentLabel = "VeryBearish"
)

// ActivityLabel grades message volume.
type ActivityLabel string

const (
	ActivityHigh     ActivityLabel = "High"
	ActivityModerate ActivityLabel = "Moderate"
	ActivityLow      ActivityLabel = "Low"
)

// Influencer is one high-follower message author in a summary.
type Influencer struct {
	Author    string            `json:"author"`
	Followers int               `json:"followers"`
	Sentiment ExplicitSentiment `json:"sentiment,omitempty"`
}

// SentimentSummary is the aggregated sentiment for one ticker.
// Derived, immutable, recomputed per request.
type SentimentSummary struct {
	Ticker         string         `json:"ticker"`
	MessageCount   int            `json:"message_count"`
	BullishCount   int            `json:"bullish_count"`
	BearishCount   int            `json:"bearish_count"`
	NeutralCount   int            `json:"neutral_count"`
	AverageScore   float64        `json:"average_score"`
	Trend          SentimentTrend `json:"trend"`
	Label          SentimentLabel `json:"label"`
	Activity       ActivityLabel  `json:"activity"`
	TopInfluencers []Influencer   `json:"top_influencers"`
	// NoSignal indicates an empty message window: the ticker has no
	// recent social coverage at all.
	NoSignal bool `json:"no_signal"`
}

// BullishFraction returns bullish_count / message_count, 0 when empty.
func (s *SentimentSummary) BullishFraction() float64 {
	if s.MessageCount == 0 {
		return 0
	}
	return float64(s.BullishCount) / float64(s.MessageCount)
}

// BearishFraction returns bearish_count / message_count, 0 when empty.
func (s *SentimentSummary) BearishFraction() float64 {
	if s.MessageCount == 0 {
		return 0
	}
	return float64(s.BearishCount) / float64(s.MessageCount)
}

// JobStatus is the lifecycle state of a decision job. A job transitions
// Pending -> Running -> Succeeded | Failed exactly once.
type JobStatus string

const (
	JobPending   JobStatus = "Pending"
	JobRunning   JobStatus = "Running"
	JobSucceeded JobStatus = "Succeeded"
	JobFailed    JobStatus = "Failed"
)

// Outcome is the terminal result of one decision job. Exactly one
// outcome is produced per dispatched ticker.
type Outcome struct {
	Ticker   string        `json:"ticker"`
	Status   JobStatus     `json:"status"`
	Report   string        `json:"report,omitempty"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// AnalysisRequest is the single call contract of the decision-engine
// collaborator.
type AnalysisRequest struct {
	Ticker           string
	AccountSize      string
	AnalysisPeriod   string
	CurrentPortfolio string
	// Sentiment is contextual input; may be nil when the social feed
	// produced nothing.
	Sentiment *SentimentSummary
	// SentimentReport is the formatted fragment fed to the engine.
	SentimentReport string
}

// Decision is the extracted trading decision of a report.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// AnalysisRecord is one persisted analysis outcome. Append-only.
type AnalysisRecord struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Ticker     string    `json:"ticker"`
	Decision   Decision  `json:"decision"`
	FullReport string    `json:"full_report"`
}
