package commands

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/contracts"
	"stockpilot/internal/dispatch"
	"stockpilot/internal/engine"
	"stockpilot/internal/feeds"
	"stockpilot/internal/pipeline"
	"stockpilot/internal/screener"
	"stockpilot/internal/sentiment"
	"stockpilot/internal/store"
	"stockpilot/pkg/config"
	"stockpilot/pkg/database"
	"stockpilot/pkg/httputil"
	"stockpilot/pkg/logger"
	"stockpilot/pkg/redis"
)

// bootstrap loads config and builds the logger every command shares.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// openDatabase connects to PostgreSQL and prepares the schema.
// Commands that persist require DATABASE_URL; they fail fast here.
func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, *store.Repository, error) {
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for this command")
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := store.NewRepository(db.Pool, log)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}

// feedClient builds the shared HTTP client for upstream feeds, with
// distributed rate limiting when Redis is enabled.
func feedClient(cfg *config.Config, log *logger.Logger) *httputil.Client {
	client := httputil.New(log)

	if cfg.Redis.Enabled {
		rdb, err := redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, feed rate limiting disabled")
			return client
		}
		client = client.WithRateLimiter(redis.NewRateLimiter(rdb, "feeds"), redis.RateLimitConfig{
			Key:    "upstream",
			Limit:  60,
			Window: time.Minute,
		})
	}
	return client
}

// buildFeed assembles the social feed, with news scraping merged in
// when enabled.
func buildFeed(cfg *config.Config, client *httputil.Client, log *logger.Logger) contracts.SocialFeed {
	social := feeds.NewSocialClient(client, cfg.Feeds.SocialBaseURL, log)
	if !cfg.Feeds.ScrapeNews {
		return social
	}
	news := feeds.NewNewsScraper(client, cfg.Feeds.NewsBaseURL, log)
	return feeds.NewCombinedFeed(social, news, log)
}

// buildEngine selects the configured decision engine provider.
func buildEngine(cfg *config.Config, log *logger.Logger) contracts.DecisionEngine {
	if cfg.Engine.Provider == "llm" {
		return engine.NewLLM(cfg.Engine, log)
	}
	return engine.NewStatic()
}

// buildPipeline wires the whole pipeline. repo may be nil; the
// pipeline then runs without persistence.
func buildPipeline(cfg *config.Config, repo *store.Repository, log *logger.Logger, observer dispatch.Observer) *pipeline.Pipeline {
	client := feedClient(cfg, log)

	var resultStore contracts.ResultStore
	var archiver contracts.ScreenArchiver
	if repo != nil {
		resultStore = repo
		archiver = repo
	}

	d := dispatch.New(
		buildFeed(cfg, client, log),
		sentiment.NewAggregator(sentiment.NewVaderScorer()),
		buildEngine(cfg, log),
		resultStore,
		log,
	)
	if observer != nil {
		d.WithObserver(observer)
	}

	return pipeline.New(
		feeds.NewBarClient(client, cfg.Feeds.BarsBaseURL, log),
		screener.New(screener.DefaultConfig(), log),
		d,
		archiver,
		log,
	)
}

// pipelineOptions maps config to one run's options.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Universe:       cfg.Pipeline.Universe,
		AnalysisPeriod: cfg.Pipeline.AnalysisPeriod,
		Dispatch: dispatch.Params{
			AccountSize:      cfg.Pipeline.AccountSize,
			AnalysisPeriod:   cfg.Pipeline.AnalysisPeriod,
			CurrentPortfolio: cfg.Pipeline.CurrentPortfolio,
			Concurrency:      cfg.Pipeline.Concurrency,
			MessageCap:       cfg.Pipeline.MessageCap,
			JobTimeout:       cfg.Pipeline.JobTimeout,
		},
	}
}
