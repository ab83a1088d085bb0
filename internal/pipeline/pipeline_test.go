package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/contracts"
	"stockpilot/internal/dispatch"
	"stockpilot/internal/engine"
	"stockpilot/internal/screener"
	"stockpilot/internal/sentiment"
	"stockpilot/pkg/config"
	"stockpilot/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

type zeroScorer struct{}

func (zeroScorer) Score(string) float64 { return 0 }

// fakeBars serves canned history; tickers without an entry error.
type fakeBars struct {
	series map[string][]contracts.Bar
}

func (f *fakeBars) FetchBars(_ context.Context, ticker, _ string) ([]contracts.Bar, error) {
	bars, ok := f.series[ticker]
	if !ok {
		return nil, errors.New("no data")
	}
	return bars, nil
}

type emptyFeed struct{}

func (emptyFeed) FetchMessages(context.Context, string, int) ([]contracts.SocialMessage, error) {
	return nil, nil
}

// recordingArchiver captures the snapshot call.
type recordingArchiver struct {
	totalInput int
	report     *contracts.ScreenReport
	err        error
}

func (a *recordingArchiver) SaveScreeningRun(_ context.Context, totalInput int, report *contracts.ScreenReport) error {
	a.totalInput = totalInput
	a.report = report
	return a.err
}

// passingBars builds a series that clears every screening predicate.
func passingBars() []contracts.Bar {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 250)
	for i := range bars {
		bars[i] = contracts.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Close:     100 + float64(i),
			Volume:    1_000_000,
		}
	}
	return bars
}

func newTestPipeline(bars contracts.BarProvider, archiver contracts.ScreenArchiver) *Pipeline {
	log := testLogger()
	scr := screener.New(screener.DefaultConfig(), log)
	d := dispatch.New(emptyFeed{}, sentiment.NewAggregator(zeroScorer{}), engine.NewStatic(), nil, log)
	return New(bars, scr, d, archiver, log)
}

func TestRunFullCycle(t *testing.T) {
	bars := &fakeBars{series: map[string][]contracts.Bar{
		"AAPL": passingBars(),
		"MSFT": passingBars(),
	}}
	archiver := &recordingArchiver{}
	p := newTestPipeline(bars, archiver)

	result, err := p.Run(context.Background(), Options{
		Universe:       []string{"AAPL", "MSFT", "GHOST"},
		AnalysisPeriod: "1y",
		Dispatch:       dispatch.Params{Concurrency: 2, AccountSize: "10000"},
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, result.Screen.Candidates)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Greater(t, result.Duration, time.Duration(0))

	// GHOST had no history yet still counts toward the archived input.
	assert.Equal(t, 3, archiver.totalInput)
	require.NotNil(t, archiver.report)
}

func TestRunSurvivesArchiverFailure(t *testing.T) {
	bars := &fakeBars{series: map[string][]contracts.Bar{"AAPL": passingBars()}}
	archiver := &recordingArchiver{err: errors.New("db down")}
	p := newTestPipeline(bars, archiver)

	result, err := p.Run(context.Background(), Options{
		Universe:       []string{"AAPL"},
		AnalysisPeriod: "1y",
		Dispatch:       dispatch.Params{Concurrency: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

func TestRunWithoutArchiver(t *testing.T) {
	bars := &fakeBars{series: map[string][]contracts.Bar{"AAPL": passingBars()}}
	p := newTestPipeline(bars, nil)

	result, err := p.Run(context.Background(), Options{
		Universe:       []string{"AAPL"},
		AnalysisPeriod: "1y",
		Dispatch:       dispatch.Params{Concurrency: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

func TestScreenFallsBackWhenFeedDies(t *testing.T) {
	// No ticker has history, so nothing passes and the fixed fallback
	// set is substituted.
	p := newTestPipeline(&fakeBars{}, nil)

	report := p.Screen(context.Background(), Options{
		Universe:       []string{"AAPL", "TSLA"},
		AnalysisPeriod: "1y",
	})

	assert.True(t, report.Fallback)
	assert.NotEmpty(t, report.Candidates)
}
