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

// DefaultBarsBaseURL is the public Yahoo Finance chart endpoint.
const DefaultBarsBaseURL = "https://query1.finance.yahoo.com"

// BarClient fetches daily OHLCV history from a Yahoo-chart-compatible
// endpoint.
type BarClient struct {
	client  *httputil.Client
	log     *logger.Logger
	baseURL string
}

// NewBarClient creates a bar client. An empty baseURL selects the
// public Yahoo endpoint.
func NewBarClient(client *httputil.Client, baseURL string, log *logger.Logger) *BarClient {
	if baseURL == "" {
		baseURL = DefaultBarsBaseURL
	}
	return &BarClient{client: client, log: log, baseURL: baseURL}
}

// chartResponse mirrors the Yahoo Finance chart API shape. Null price
// entries (halted sessions) appear as nil and are skipped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars returns the daily bars for ticker over period (a range
// string like "3mo" or "1y"), chronologically ascending.
func (c *BarClient) FetchBars(ctx context.Context, ticker, period string) ([]contracts.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(period))

	var chart chartResponse
	if err := c.client.GetJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", ticker, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data returned for %s", ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]contracts.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := contracts.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no usable bars returned for %s", ticker)
	}

	c.log.WithFields(map[string]interface{}{
		"ticker": ticker,
		"period": period,
		"bars":   len(bars),
	}).Debug("fetched bar history")

	return bars, nil
}
