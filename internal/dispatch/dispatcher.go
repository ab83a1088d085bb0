package dispatch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"stockpilot/internal/contracts"
	"stockpilot/internal/sentiment"
	"stockpilot/pkg/logger"
)

// Params carries the per-run knobs shared by every dispatched job.
type Params struct {
	AccountSize      string
	AnalysisPeriod   string
	CurrentPortfolio string
	// Concurrency bounds the number of jobs inside the engine at any
	// moment. Values below 1 are treated as 1.
	Concurrency int
	// MessageCap bounds the social window fed to the aggregator.
	MessageCap int
	// JobTimeout bounds a single job end to end; zero disables it.
	JobTimeout time.Duration
}

// Dispatcher fans a candidate list out to the decision engine under a
// bounded-concurrency gate. Each ticker becomes exactly one job and
// each job yields exactly one Outcome; a failed job never disturbs its
// siblings.
type Dispatcher struct {
	feed     contracts.SocialFeed
	agg      *sentiment.Aggregator
	engine   contracts.DecisionEngine
	store    contracts.ResultStore
	log      *logger.Logger
	observer Observer
}

// New creates a dispatcher. store may be nil when persistence is not
// wanted (diagnostic runs).
func New(feed contracts.SocialFeed, agg *sentiment.Aggregator, engine contracts.DecisionEngine, store contracts.ResultStore, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		feed:   feed,
		agg:    agg,
		engine: engine,
		store:  store,
		log:    log,
	}
}

// WithObserver registers an event sink for job transitions. Call before
// Run; not safe to change while a run is in flight.
func (d *Dispatcher) WithObserver(obs Observer) *Dispatcher {
	d.observer = obs
	return d
}

// Run dispatches one job per ticker and blocks until all of them have
// finished. The returned slice has one Outcome per input ticker, in
// submission order.
func (d *Dispatcher) Run(ctx context.Context, tickers []string, params Params) []contracts.Outcome {
	concurrency := params.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	d.log.WithFields(map[string]interface{}{
		"tickers":     len(tickers),
		"concurrency": concurrency,
	}).Info("dispatching analysis jobs")

	sem := semaphore.NewWeighted(int64(concurrency))
	outcomes := make([]contracts.Outcome, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(idx int, ticker string) {
			defer wg.Done()

			d.emit(Event{Ticker: ticker, Status: contracts.JobPending, Time: time.Now()})

			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[idx] = contracts.Outcome{
					Ticker: ticker,
					Status: contracts.JobFailed,
					Err:    err.Error(),
				}
				d.emit(Event{Ticker: ticker, Status: contracts.JobFailed, Err: err.Error(), Time: time.Now()})
				return
			}
			defer sem.Release(1)

			outcomes[idx] = d.runJob(ctx, ticker, params)
		}(i, ticker)
	}
	wg.Wait()

	succeeded := 0
	for _, o := range outcomes {
		if o.Status == contracts.JobSucceeded {
			succeeded++
		}
	}
	d.log.WithFields(map[string]interface{}{
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
	}).Info("dispatch complete")

	return outcomes
}

// runJob executes one ticker end to end: social window, aggregation,
// engine call, persistence. Every failure is contained here.
func (d *Dispatcher) runJob(ctx context.Context, ticker string, params Params) contracts.Outcome {
	start := time.Now()
	d.emit(Event{Ticker: ticker, Status: contracts.JobRunning, Time: start})

	if params.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.JobTimeout)
		defer cancel()
	}

	messages, err := d.feed.FetchMessages(ctx, ticker, params.MessageCap)
	if err != nil {
		// A dead social feed degrades the job, it does not fail it:
		// the engine still runs, with an empty sentiment window.
		d.log.WithField("ticker", ticker).WithError(err).Warn("social feed unavailable, continuing without sentiment")
		messages = nil
	}

	summary := d.agg.Aggregate(ticker, messages, params.MessageCap)

	report, err := d.engine.Analyze(ctx, contracts.AnalysisRequest{
		Ticker:           ticker,
		AccountSize:      params.AccountSize,
		AnalysisPeriod:   params.AnalysisPeriod,
		CurrentPortfolio: params.CurrentPortfolio,
		Sentiment:        &summary,
		SentimentReport:  sentiment.FormatReport(&summary),
	})
	if err != nil {
		d.log.WithField("ticker", ticker).WithError(err).Error("analysis failed")
		outcome := contracts.Outcome{
			Ticker:   ticker,
			Status:   contracts.JobFailed,
			Err:      err.Error(),
			Duration: time.Since(start),
		}
		d.emit(Event{Ticker: ticker, Status: contracts.JobFailed, Err: err.Error(), Time: time.Now()})
		return outcome
	}

	if d.store != nil {
		// Persistence failure does not fail the job: the report was
		// produced and is still returned to the caller.
		if _, perr := d.store.Persist(ctx, ticker, report); perr != nil {
			d.log.WithField("ticker", ticker).WithError(perr).Error("failed to persist analysis record")
		}
	}

	d.emit(Event{Ticker: ticker, Status: contracts.JobSucceeded, Time: time.Now()})
	return contracts.Outcome{
		Ticker:   ticker,
		Status:   contracts.JobSucceeded,
		Report:   report,
		Duration: time.Since(start),
	}
}

func (d *Dispatcher) emit(e Event) {
	if d.observer != nil {
		d.observer.Emit(e)
	}
}
