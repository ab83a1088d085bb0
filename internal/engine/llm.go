package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/time/rate"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/config"
	"stockpilot/pkg/httputil"
	"stockpilot/pkg/logger"
)

const defaultAnthropicVersion = "2023-06-01"

// LLMEngine produces analysis reports by calling a messages-style LLM
// completion API. Requests are throttled client-side to the configured
// per-minute budget so concurrent jobs cannot trip provider limits.
type LLMEngine struct {
	client  *httputil.Client
	limiter *rate.Limiter
	log     *logger.Logger

	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

// NewLLM creates an engine from the configured provider settings.
func NewLLM(cfg config.EngineConfig, log *logger.Logger) *LLMEngine {
	rpm := cfg.RequestsPerMinute
	if rpm < 1 {
		rpm = 10
	}
	maxTokens := cfg.MaxTokens
	if maxTokens < 1 {
		maxTokens = 4096
	}

	return &LLMEngine{
		client:    httputil.NewWithTimeout(log, cfg.Timeout),
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		log:       log,
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Analyze sends one analysis request and returns the model's report
// verbatim.
func (e *LLMEngine) Analyze(ctx context.Context, req contracts.AnalysisRequest) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body := messagesRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		Messages: []message{
			{Role: "user", Content: buildPrompt(req)},
		},
	}

	e.log.WithField("ticker", req.Ticker).Debug("requesting analysis from LLM")

	resp, err := e.client.PostJSON(ctx, e.baseURL+"/v1/messages", body, map[string]string{
		"x-api-key":         e.apiKey,
		"anthropic-version": defaultAnthropicVersion,
	})
	if err != nil {
		return "", fmt.Errorf("LLM request for %s: %w", req.Ticker, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read LLM response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode LLM response: %w", err)
	}
	if resp.StatusCode != 200 {
		if parsed.Error != nil {
			return "", fmt.Errorf("LLM API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("LLM API returned status %d", resp.StatusCode)
	}

	report := ""
	for _, block := range parsed.Content {
		if block.Type == "text" {
			report += block.Text
		}
	}
	if report == "" {
		return "", fmt.Errorf("LLM response for %s contained no text", req.Ticker)
	}
	return report, nil
}

// buildPrompt renders the analysis instruction fed to the model. The
// report contract is free-form text that must end with a single
// DECISION line.
func buildPrompt(req contracts.AnalysisRequest) string {
	portfolio := req.CurrentPortfolio
	if portfolio == "" {
		portfolio = "None"
	}

	return fmt.Sprintf(`You are a swing-trading analyst. Analyze %s as a potential trade.

Account size: $%s
Analysis period: %s
Current portfolio: %s

%s
Weigh the social sentiment above against general market conditions for
this ticker. Produce a concise written report covering: technical
posture, sentiment read, key risks, and a position size suggestion
within the account.

End the report with exactly one line of the form:
DECISION: BUY, DECISION: SELL, or DECISION: HOLD`,
		req.Ticker, req.AccountSize, req.AnalysisPeriod, portfolio, req.SentimentReport)
}
