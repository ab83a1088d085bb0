package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis (optional, used for feed-API rate limiting)
	Redis RedisConfig

	// Decision engine
	Engine EngineConfig

	// Data-provider feeds
	Feeds FeedsConfig

	// Pipeline
	Pipeline PipelineConfig

	// Scheduling
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EngineConfig holds decision-engine collaborator configuration.
// The engine is an opaque call/response service: ticker plus account
// parameters in, natural-language report out.
type EngineConfig struct {
	Provider          string // "llm" or "static"
	BaseURL           string
	APIKey            string
	Model             string
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerMinute int
}

// FeedsConfig holds upstream data-provider configuration.
type FeedsConfig struct {
	BarsBaseURL   string
	SocialBaseURL string
	NewsBaseURL   string
	ScrapeNews    bool
}

// PipelineConfig holds screening and dispatch configuration.
type PipelineConfig struct {
	Universe         []string
	Concurrency      int
	AccountSize      string
	AnalysisPeriod   string
	CurrentPortfolio string
	MessageCap       int
	JobTimeout       time.Duration
}

// ScheduleConfig holds cron configuration for unattended runs.
type ScheduleConfig struct {
	Cron string
}

// defaultUniverse is the out-of-the-box screening universe.
var defaultUniverse = []string{
	"AAPL", "TSLA", "NVDA", "AMD", "MSFT", "GOOGL", "AMZN", "META", "NFLX", "INTC",
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8086"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Decision engine
		Engine: EngineConfig{
			Provider:          getEnv("ENGINE_PROVIDER", "static"),
			BaseURL:           getEnv("ENGINE_BASE_URL", "https://api.anthropic.com"),
			APIKey:            getEnv("ENGINE_API_KEY", ""),
			Model:             getEnv("ENGINE_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens:         getEnvAsInt("ENGINE_MAX_TOKENS", 4096),
			Timeout:           getEnvAsDuration("ENGINE_TIMEOUT", "120s"),
			RequestsPerMinute: getEnvAsInt("ENGINE_REQUESTS_PER_MINUTE", 10),
		},

		// Feeds
		Feeds: FeedsConfig{
			BarsBaseURL:   getEnv("BARS_BASE_URL", "https://query1.finance.yahoo.com"),
			SocialBaseURL: getEnv("SOCIAL_BASE_URL", "https://api.stocktwits.com"),
			NewsBaseURL:   getEnv("NEWS_BASE_URL", "https://finviz.com"),
			ScrapeNews:    getEnvAsBool("NEWS_SCRAPE_ENABLED", false),
		},

		// Pipeline
		Pipeline: PipelineConfig{
			Universe:         getEnvAsList("UNIVERSE", defaultUniverse),
			Concurrency:      getEnvAsInt("PIPELINE_CONCURRENCY", 2),
			AccountSize:      getEnv("ACCOUNT_SIZE", "10000"),
			AnalysisPeriod:   getEnv("ANALYSIS_PERIOD", "3mo"),
			CurrentPortfolio: getEnv("CURRENT_PORTFOLIO", "None"),
			MessageCap:       getEnvAsInt("MESSAGE_CAP", 30),
			JobTimeout:       getEnvAsDuration("JOB_TIMEOUT", "5m"),
		},

		// Schedule: weekdays after US market close by default
		Schedule: ScheduleConfig{
			Cron: getEnv("PIPELINE_CRON", "0 30 16 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent.
// DATABASE_URL is checked by the commands that open the store, not here,
// so store-less commands (screen, sentiment) run without a database.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("PIPELINE_CONCURRENCY must be >= 1")
	}

	if c.Pipeline.MessageCap < 1 {
		return fmt.Errorf("MESSAGE_CAP must be >= 1")
	}

	if len(c.Pipeline.Universe) == 0 {
		return fmt.Errorf("UNIVERSE must contain at least one ticker")
	}

	if c.Engine.Provider != "llm" && c.Engine.Provider != "static" {
		return fmt.Errorf("ENGINE_PROVIDER must be one of: llm, static")
	}

	if c.Engine.Provider == "llm" && c.Engine.APIKey == "" {
		return fmt.Errorf("ENGINE_API_KEY is required when ENGINE_PROVIDER=llm")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated env var into a trimmed,
// upper-cased ticker list.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
