package feeds

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/httputil"
	"stockpilot/pkg/logger"
)

// DefaultSocialBaseURL is the public StockTwits API endpoint.
const DefaultSocialBaseURL = "https://api.stocktwits.com"

// SocialClient fetches the recent message stream for a symbol from a
// StockTwits-compatible API.
type SocialClient struct {
	client  *httputil.Client
	log     *logger.Logger
	baseURL string
}

// NewSocialClient creates a social feed client. An empty baseURL
// selects the public StockTwits endpoint.
func NewSocialClient(client *httputil.Client, baseURL string, log *logger.Logger) *SocialClient {
	if baseURL == "" {
		baseURL = DefaultSocialBaseURL
	}
	return &SocialClient{client: client, log: log, baseURL: baseURL}
}

type streamResponse struct {
	Messages []struct {
		ID   int64  `json:"id"`
		Body string `json:"body"`
		User struct {
			Username  string `json:"username"`
			Followers int    `json:"followers"`
		} `json:"user"`
		Entities struct {
			Sentiment *struct {
				Basic string `json:"basic"`
			} `json:"sentiment"`
		} `json:"entities"`
		CreatedAt string `json:"created_at"`
	} `json:"messages"`
}

// FetchMessages returns up to limit messages for ticker,
// most-recent-first as the stream API delivers them.
func (c *SocialClient) FetchMessages(ctx context.Context, ticker string, limit int) ([]contracts.SocialMessage, error) {
	u := fmt.Sprintf("%s/api/2/streams/symbol/%s.json", c.baseURL, url.PathEscape(ticker))

	var stream streamResponse
	if err := c.client.GetJSON(ctx, u, &stream); err != nil {
		return nil, fmt.Errorf("failed to fetch social stream for %s: %w", ticker, err)
	}

	messages := make([]contracts.SocialMessage, 0, len(stream.Messages))
	for _, m := range stream.Messages {
		if limit > 0 && len(messages) >= limit {
			break
		}

		msg := contracts.SocialMessage{
			ID:              fmt.Sprintf("%d", m.ID),
			Body:            m.Body,
			Author:          m.User.Username,
			AuthorFollowers: m.User.Followers,
		}
		if m.Entities.Sentiment != nil {
			switch m.Entities.Sentiment.Basic {
			case "Bullish":
				msg.Sentiment = contracts.SentimentBullish
			case "Bearish":
				msg.Sentiment = contracts.SentimentBearish
			}
		}
		if ts, err := time.Parse("2006-01-02T15:04:05Z", m.CreatedAt); err == nil {
			msg.CreatedAt = ts
		}
		messages = append(messages, msg)
	}

	c.log.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"messages": len(messages),
	}).Debug("fetched social stream")

	return messages, nil
}
