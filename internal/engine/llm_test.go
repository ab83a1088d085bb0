package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/config"
	"stockpilot/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func newTestLLM(serverURL string) *LLMEngine {
	return NewLLM(config.EngineConfig{
		Provider:          "llm",
		BaseURL:           serverURL,
		APIKey:            "test-key",
		Model:             "test-model",
		MaxTokens:         1024,
		Timeout:           5 * time.Second,
		RequestsPerMinute: 600,
	}, testLogger())
}

func TestLLMAnalyze(t *testing.T) {
	var gotReq messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{
				{Type: "text", Text: "NVDA looks strong.\n"},
				{Type: "text", Text: "DECISION: BUY"},
			},
		})
	}))
	defer server.Close()

	report, err := newTestLLM(server.URL).Analyze(context.Background(), contracts.AnalysisRequest{
		Ticker:          "NVDA",
		AccountSize:     "10000",
		AnalysisPeriod:  "3mo",
		SentimentReport: "Social Sentiment for $NVDA\n",
	})

	require.NoError(t, err)
	assert.Contains(t, report, "DECISION: BUY")

	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "NVDA")
	assert.Contains(t, gotReq.Messages[0].Content, "Social Sentiment for $NVDA")
	assert.Contains(t, gotReq.Messages[0].Content, "$10000")
	assert.Equal(t, "test-model", gotReq.Model)
}

func TestLLMAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(messagesResponse{
			Error: &apiError{Type: "invalid_request_error", Message: "model not found"},
		})
	}))
	defer server.Close()

	_, err := newTestLLM(server.URL).Analyze(context.Background(), contracts.AnalysisRequest{Ticker: "AAPL"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestLLMAnalyzeEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messagesResponse{})
	}))
	defer server.Close()

	_, err := newTestLLM(server.URL).Analyze(context.Background(), contracts.AnalysisRequest{Ticker: "AAPL"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}

func TestBuildPromptDefaultsPortfolio(t *testing.T) {
	prompt := buildPrompt(contracts.AnalysisRequest{Ticker: "TSLA", AccountSize: "5000", AnalysisPeriod: "1mo"})
	assert.Contains(t, prompt, "Current portfolio: None")
}
