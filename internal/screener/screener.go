package screener

import (
	"errors"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/logger"
)

// Screener applies the technical eligibility filter to a batch of OHLCV
// series. It holds no mutable state across calls and is safe to invoke
// concurrently.
type Screener struct {
	config Config
	logger *logger.Logger
}

// Config defines the screening thresholds.
type Config struct {
	// MinPrice excludes micro-cap noise (latest close must exceed it).
	MinPrice float64
	// MinAvgVolume is the 20-period average volume floor.
	MinAvgVolume float64
	// DrawdownRatio tolerates a pullback: latest close must exceed
	// DrawdownRatio x SMA50.
	DrawdownRatio float64
	// FallbackTickers are substituted when nothing passes. This is a
	// deliberate safety net so downstream stages always have at least
	// one job, not dead code; it fabricates input and is worth
	// reconsidering.
	FallbackTickers []string
}

// DefaultConfig returns the stock screening thresholds.
func DefaultConfig() Config {
	return Config{
		MinPrice:        10,
		MinAvgVolume:    500_000,
		DrawdownRatio:   0.9,
		FallbackTickers: []string{"AAPL", "MSFT"},
	}
}

// New creates a new screener
func New(config Config, log *logger.Logger) *Screener {
	return &Screener{
		config: config,
		logger: log,
	}
}

// Screen evaluates each ticker's latest bar against the three
// predicates and returns the ordered diagnostic table plus the
// candidate list. tickers fixes the output order; series maps each
// ticker to its OHLCV history (possibly empty when the fetch failed).
//
// A per-ticker computation error excludes that ticker without aborting
// the batch; Screen itself never fails.
func (s *Screener) Screen(tickers []string, series map[string][]contracts.Bar) *contracts.ScreenReport {
	report := &contracts.ScreenReport{
		Results:    make([]contracts.ScreenResult, 0, len(tickers)),
		Candidates: make([]string, 0),
		Rejections: make(map[string]int),
	}

	for _, ticker := range tickers {
		bars := series[ticker]
		if len(bars) == 0 {
			// Fetch failed or no data: skipped entirely, not counted
			// as rejected.
			continue
		}

		result, err := s.evaluate(ticker, bars)
		if err != nil {
			if errors.Is(err, ErrInsufficientHistory) {
				report.Rejections["insufficient_history"]++
			}
			s.logger.WithError(err).WithField("ticker", ticker).Debug("Ticker excluded from screening")
			continue
		}

		report.Results = append(report.Results, result)
		if result.Passed {
			report.Candidates = append(report.Candidates, ticker)
		} else {
			report.Rejections[string(result.Trend)]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input": len(tickers),
		"evaluated":   len(report.Results),
		"passed":      len(report.Candidates),
		"rejections":  report.Rejections,
	}).Info("Screening completed")

	// Fallback: never hand downstream an empty candidate set.
	if len(report.Candidates) == 0 && len(s.config.FallbackTickers) > 0 {
		report.Candidates = append(report.Candidates, s.config.FallbackTickers...)
		report.Fallback = true
		s.logger.WithField("fallback", report.Candidates).Warn("No tickers passed screening, using fallback set")
	}

	return report
}

// evaluate computes the indicators for one ticker and applies the
// predicates to its latest bar.
func (s *Screener) evaluate(ticker string, bars []contracts.Bar) (contracts.ScreenResult, error) {
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	sma50, err := trailingSMA(closes, closeFastWindow)
	if err != nil {
		return contracts.ScreenResult{}, err
	}
	sma200, err := trailingSMA(closes, closeSlowWindow)
	if err != nil {
		return contracts.ScreenResult{}, err
	}
	volumeAvg, err := trailingSMA(volumes, volumeWindow)
	if err != nil {
		return contracts.ScreenResult{}, err
	}

	price := bars[len(bars)-1].Close

	validPrice := price > s.config.MinPrice
	liquid := volumeAvg > s.config.MinAvgVolume
	notCrashing := price > sma50*s.config.DrawdownRatio

	result := contracts.ScreenResult{
		Ticker:      ticker,
		LatestClose: price,
		Passed:      validPrice && liquid && notCrashing,
	}

	if result.Passed {
		if price > sma200 {
			result.Trend = contracts.TrendBullish
		} else {
			result.Trend = contracts.TrendRecovering
		}
		return result, nil
	}

	// Rejection-reason precedence: liquid > not_crashing > valid_price.
	switch {
	case !liquid:
		result.Trend = contracts.TrendLowVolume
	case !notCrashing:
		result.Trend = contracts.TrendDowntrend
	default:
		result.Trend = contracts.TrendPennyStock
	}

	return result, nil
}
