package feeds

import (
	"context"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/logger"
)

// CombinedFeed merges the social stream with scraped news headlines
// into one message window. The social stream is authoritative; news is
// best-effort and a scrape failure only logs.
type CombinedFeed struct {
	social *SocialClient
	news   *NewsScraper
	log    *logger.Logger
}

// NewCombinedFeed creates a feed that appends headlines from news
// after the social stream. news may be nil to disable scraping.
func NewCombinedFeed(social *SocialClient, news *NewsScraper, log *logger.Logger) *CombinedFeed {
	return &CombinedFeed{social: social, news: news, log: log}
}

// FetchMessages returns the social window for ticker with news
// headlines appended, up to limit entries total.
func (f *CombinedFeed) FetchMessages(ctx context.Context, ticker string, limit int) ([]contracts.SocialMessage, error) {
	messages, err := f.social.FetchMessages(ctx, ticker, limit)
	if err != nil {
		return nil, err
	}

	if f.news == nil || (limit > 0 && len(messages) >= limit) {
		return messages, nil
	}

	remaining := 0
	if limit > 0 {
		remaining = limit - len(messages)
	}
	headlines, err := f.news.FetchHeadlines(ctx, ticker, remaining)
	if err != nil {
		f.log.WithField("ticker", ticker).WithError(err).Warn("news scrape failed, using social stream only")
		return messages, nil
	}

	return append(messages, headlines...), nil
}
