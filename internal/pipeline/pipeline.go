package pipeline

import (
	"context"
	"time"

	"stockpilot/internal/contracts"
	"stockpilot/internal/dispatch"
	"stockpilot/internal/screener"
	"stockpilot/pkg/logger"
)

// Pipeline runs the full analysis flow: bar history, screening,
// dispatch. One Run call is one complete cycle; the pipeline holds no
// state between cycles.
type Pipeline struct {
	bars       contracts.BarProvider
	screener   *screener.Screener
	dispatcher *dispatch.Dispatcher
	archiver   contracts.ScreenArchiver
	log        *logger.Logger
}

// Options carries the per-run pipeline parameters.
type Options struct {
	Universe       []string
	AnalysisPeriod string
	Dispatch       dispatch.Params
}

// RunResult is the outcome of one full pipeline cycle.
type RunResult struct {
	Screen    *contracts.ScreenReport
	Outcomes  []contracts.Outcome
	Duration  time.Duration
	Succeeded int
	Failed    int
}

// New creates a pipeline. archiver may be nil when screening snapshots
// are not persisted.
func New(bars contracts.BarProvider, scr *screener.Screener, d *dispatch.Dispatcher, archiver contracts.ScreenArchiver, log *logger.Logger) *Pipeline {
	return &Pipeline{
		bars:       bars,
		screener:   scr,
		dispatcher: d,
		archiver:   archiver,
		log:        log,
	}
}

// Run executes one cycle over the given universe and blocks until all
// dispatched jobs are done.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*RunResult, error) {
	start := time.Now()

	p.log.WithFields(map[string]interface{}{
		"universe": len(opts.Universe),
		"period":   opts.AnalysisPeriod,
	}).Info("pipeline cycle starting")

	report := p.screen(ctx, opts)

	if p.archiver != nil {
		// Snapshot persistence is best-effort and never blocks the run.
		if err := p.archiver.SaveScreeningRun(ctx, len(opts.Universe), report); err != nil {
			p.log.WithError(err).Warn("failed to archive screening run")
		}
	}

	outcomes := p.dispatcher.Run(ctx, report.Candidates, opts.Dispatch)

	result := &RunResult{
		Screen:   report,
		Outcomes: outcomes,
		Duration: time.Since(start),
	}
	for _, o := range outcomes {
		if o.Status == contracts.JobSucceeded {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	p.log.WithFields(map[string]interface{}{
		"candidates": len(report.Candidates),
		"succeeded":  result.Succeeded,
		"failed":     result.Failed,
		"duration":   result.Duration,
	}).Info("pipeline cycle complete")

	return result, nil
}

// Screen fetches history for the universe and runs the screening
// stage only. Used by the diagnostic CLI path as well as Run.
func (p *Pipeline) Screen(ctx context.Context, opts Options) *contracts.ScreenReport {
	return p.screen(ctx, opts)
}

func (p *Pipeline) screen(ctx context.Context, opts Options) *contracts.ScreenReport {
	series := make(map[string][]contracts.Bar, len(opts.Universe))
	for _, ticker := range opts.Universe {
		bars, err := p.bars.FetchBars(ctx, ticker, opts.AnalysisPeriod)
		if err != nil {
			// A dead feed excludes the ticker; the rest of the
			// universe still screens.
			p.log.WithField("ticker", ticker).WithError(err).Warn("bar history unavailable, excluding ticker")
			continue
		}
		series[ticker] = bars
	}

	return p.screener.Screen(opts.Universe, series)
}
