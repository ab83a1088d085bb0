package feeds

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/httputil"
	"stockpilot/pkg/logger"
)

// DefaultNewsBaseURL is the public Finviz quote page.
const DefaultNewsBaseURL = "https://finviz.com"

// NewsScraper scrapes recent headlines for a ticker from a
// Finviz-style quote page. Headlines carry no explicit sentiment tag;
// the aggregator scores their text instead.
type NewsScraper struct {
	client  *httputil.Client
	log     *logger.Logger
	baseURL string
}

// NewNewsScraper creates a headline scraper. An empty baseURL selects
// the public Finviz endpoint.
func NewNewsScraper(client *httputil.Client, baseURL string, log *logger.Logger) *NewsScraper {
	if baseURL == "" {
		baseURL = DefaultNewsBaseURL
	}
	return &NewsScraper{client: client, log: log, baseURL: baseURL}
}

// FetchHeadlines returns up to limit recent headlines as untagged
// social messages, newest first as the page lists them.
func (s *NewsScraper) FetchHeadlines(ctx context.Context, ticker string, limit int) ([]contracts.SocialMessage, error) {
	u := fmt.Sprintf("%s/quote.ashx?t=%s", s.baseURL, url.QueryEscape(ticker))

	resp, err := s.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news page for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("news page for %s returned status %d", ticker, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news page for %s: %w", ticker, err)
	}

	var messages []contracts.SocialMessage
	doc.Find("table#news-table tr").Each(func(i int, row *goquery.Selection) {
		if limit > 0 && len(messages) >= limit {
			return
		}
		link := row.Find("a")
		headline := strings.TrimSpace(link.Text())
		if headline == "" {
			return
		}
		source := strings.TrimSpace(row.Find("span").Last().Text())
		messages = append(messages, contracts.SocialMessage{
			ID:     fmt.Sprintf("news-%s-%d", ticker, i),
			Body:   headline,
			Author: source,
		})
	})

	s.log.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"headlines": len(messages),
	}).Debug("scraped news headlines")

	return messages, nil
}
