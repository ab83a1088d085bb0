package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/contracts"
)

const streamFixture = `{
	"messages": [
		{
			"id": 101,
			"body": "Loading up on $TSLA calls",
			"user": {"username": "bull_rider", "followers": 5400},
			"entities": {"sentiment": {"basic": "Bullish"}},
			"created_at": "2026-08-28T14:02:11Z"
		},
		{
			"id": 100,
			"body": "This rally feels exhausted",
			"user": {"username": "fader", "followers": 900},
			"entities": {"sentiment": {"basic": "Bearish"}},
			"created_at": "2026-08-28T13:55:40Z"
		},
		{
			"id": 99,
			"body": "Earnings next week, watching from the sidelines",
			"user": {"username": "quietone", "followers": 120},
			"entities": {"sentiment": null},
			"created_at": "2026-08-28T13:40:02Z"
		}
	]
}`

func TestFetchMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2/streams/symbol/TSLA.json", r.URL.Path)
		fmt.Fprint(w, streamFixture)
	}))
	defer server.Close()

	client := NewSocialClient(testHTTPClient(), server.URL, testLogger())
	messages, err := client.FetchMessages(context.Background(), "TSLA", 0)

	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "101", messages[0].ID)
	assert.Equal(t, contracts.SentimentBullish, messages[0].Sentiment)
	assert.Equal(t, "bull_rider", messages[0].Author)
	assert.Equal(t, 5400, messages[0].AuthorFollowers)
	assert.False(t, messages[0].CreatedAt.IsZero())

	assert.Equal(t, contracts.SentimentBearish, messages[1].Sentiment)
	assert.Equal(t, contracts.SentimentNone, messages[2].Sentiment)
}

func TestFetchMessagesRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, streamFixture)
	}))
	defer server.Close()

	client := NewSocialClient(testHTTPClient(), server.URL, testLogger())
	messages, err := client.FetchMessages(context.Background(), "TSLA", 2)

	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestFetchMessagesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSocialClient(testHTTPClient(), server.URL, testLogger())
	_, err := client.FetchMessages(context.Background(), "TSLA", 0)

	require.Error(t, err)
}

func TestNewsHeadlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NVDA", r.URL.Query().Get("t"))
		fmt.Fprint(w, `<html><body>
			<table id="news-table">
				<tr><td>Aug-28-26</td><td><a href="#">Nvidia beats on data center revenue</a> <span>Reuters</span></td></tr>
				<tr><td>Aug-27-26</td><td><a href="#">Analysts raise price targets ahead of earnings</a> <span>Bloomberg</span></td></tr>
			</table>
		</body></html>`)
	}))
	defer server.Close()

	scraper := NewNewsScraper(testHTTPClient(), server.URL, testLogger())
	headlines, err := scraper.FetchHeadlines(context.Background(), "NVDA", 0)

	require.NoError(t, err)
	require.Len(t, headlines, 2)
	assert.Equal(t, "Nvidia beats on data center revenue", headlines[0].Body)
	assert.Equal(t, "Reuters", headlines[0].Author)
	assert.Equal(t, contracts.SentimentNone, headlines[0].Sentiment)
}

func TestCombinedFeedSurvivesNewsFailure(t *testing.T) {
	social := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, streamFixture)
	}))
	defer social.Close()
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer news.Close()

	feed := NewCombinedFeed(
		NewSocialClient(testHTTPClient(), social.URL, testLogger()),
		NewNewsScraper(testHTTPClient(), news.URL, testLogger()),
		testLogger(),
	)

	messages, err := feed.FetchMessages(context.Background(), "TSLA", 0)

	require.NoError(t, err)
	assert.Len(t, messages, 3)
}
