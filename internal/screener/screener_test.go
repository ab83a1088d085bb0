package screener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/config"
	"stockpilot/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// makeBars builds n constant bars, then applies overrides to the final bar.
func makeBars(n int, close float64, volume int64) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	ts := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{
			Timestamp: ts.AddDate(0, 0, i),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
			Volume:    volume,
		}
	}
	return bars
}

func withLatestClose(bars []contracts.Bar, close float64) []contracts.Bar {
	bars[len(bars)-1].Close = close
	return bars
}

func TestScreenPassesHealthyTicker(t *testing.T) {
	s := New(DefaultConfig(), testLogger())

	// Rising series so close > SMA200: Bullish
	bars := makeBars(250, 50, 1_000_000)
	for i := range bars {
		bars[i].Close = 50 + float64(i)*0.1
	}

	report := s.Screen([]string{"NVDA"}, map[string][]contracts.Bar{"NVDA": bars})

	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Passed)
	assert.Equal(t, contracts.TrendBullish, report.Results[0].Trend)
	assert.Equal(t, []string{"NVDA"}, report.Candidates)
	assert.False(t, report.Fallback)
}

func TestScreenRecoveringWhenBelowSlowAverage(t *testing.T) {
	s := New(DefaultConfig(), testLogger())

	// Flat series: close == SMA200, not strictly above, so Recovering.
	bars := makeBars(250, 50, 1_000_000)

	report := s.Screen([]string{"MSFT"}, map[string][]contracts.Bar{"MSFT": bars})

	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Passed)
	assert.Equal(t, contracts.TrendRecovering, report.Results[0].Trend)
}

func TestScreenRejectsDowntrend(t *testing.T) {
	s := New(DefaultConfig(), testLogger())

	// Liquid and above the price floor, but the latest close sits more
	// than 10% below the 50-period average.
	bars := withLatestClose(makeBars(250, 20, 600_000), 12)

	report := s.Screen([]string{"X"}, map[string][]contracts.Bar{"X": bars})

	require.Len(t, report.Results, 1)
	result := report.Results[0]
	assert.False(t, result.Passed)
	assert.Equal(t, contracts.TrendDowntrend, result.Trend)
	assert.Equal(t, 12.0, result.LatestClose)
}

func TestScreenRejectionPrecedence(t *testing.T) {
	s := New(DefaultConfig(), testLogger())

	tests := []struct {
		name string
		bars []contracts.Bar
		want contracts.TrendLabel
	}{
		{
			// Low volume wins over everything else
			name: "low volume first",
			bars: withLatestClose(makeBars(250, 20, 100_000), 5),
			want: contracts.TrendLowVolume,
		},
		{
			name: "then downtrend",
			bars: withLatestClose(makeBars(250, 20, 600_000), 11),
			want: contracts.TrendDowntrend,
		},
		{
			// Price floor only fails when the other two pass
			name: "penny stock last",
			bars: makeBars(250, 5, 600_000),
			want: contracts.TrendPennyStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := s.Screen([]string{"T"}, map[string][]contracts.Bar{"T": tt.bars})
			require.Len(t, report.Results, 1)
			assert.False(t, report.Results[0].Passed)
			assert.Equal(t, tt.want, report.Results[0].Trend)
		})
	}
}

func TestScreenSkipsEmptyAndShortSeries(t *testing.T) {
	s := New(DefaultConfig(), testLogger())

	series := map[string][]contracts.Bar{
		"GOOD":  makeBars(250, 50, 1_000_000),
		"EMPTY": {},
		"SHORT": makeBars(30, 50, 1_000_000),
		// MISSING has no entry at all
	}
	tickers := []string{"GOOD", "EMPTY", "SHORT", "MISSING"}

	report := s.Screen(tickers, series)

	// Skipped tickers appear neither in results nor candidates
	require.Len(t, report.Results, 1)
	assert.Equal(t, "GOOD", report.Results[0].Ticker)
	assert.LessOrEqual(t, len(report.Results), len(tickers))
	assert.Equal(t, 1, report.Rejections["insufficient_history"])
}

func TestScreenFallbackOnEmptyCandidates(t *testing.T) {
	s := New(DefaultConfig(), testLogger())

	// Everything is a penny stock
	series := map[string][]contracts.Bar{
		"P1": makeBars(250, 3, 600_000),
		"P2": makeBars(250, 4, 600_000),
	}

	report := s.Screen([]string{"P1", "P2"}, series)

	assert.True(t, report.Fallback)
	assert.Equal(t, []string{"AAPL", "MSFT"}, report.Candidates)
	// The diagnostic table still reflects what was observed
	assert.Len(t, report.Results, 2)
}

func TestScreenPassedImpliesAllPredicates(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg, testLogger())

	series := map[string][]contracts.Bar{
		"A": makeBars(250, 50, 1_000_000),
		"B": withLatestClose(makeBars(250, 20, 600_000), 12),
		"C": makeBars(250, 5, 600_000),
	}
	report := s.Screen([]string{"A", "B", "C"}, series)

	for _, result := range report.Results {
		if !result.Passed {
			continue
		}
		bars := series[result.Ticker]
		closes := make([]float64, len(bars))
		volumes := make([]float64, len(bars))
		for i, b := range bars {
			closes[i] = b.Close
			volumes[i] = float64(b.Volume)
		}
		sma50, err := trailingSMA(closes, closeFastWindow)
		require.NoError(t, err)
		volAvg, err := trailingSMA(volumes, volumeWindow)
		require.NoError(t, err)

		assert.Greater(t, result.LatestClose, cfg.MinPrice)
		assert.Greater(t, volAvg, cfg.MinAvgVolume)
		assert.Greater(t, result.LatestClose, sma50*cfg.DrawdownRatio)
	}
}
