package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockpilot/internal/contracts"
	"stockpilot/pkg/logger"
)

// Repository persists analysis records and screening-run snapshots in
// PostgreSQL. Records are append-only; there is no update path.
type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewRepository creates a repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

// Init creates the schema and tables if they do not exist yet.
// Idempotent; safe to call on every startup.
func (r *Repository) Init(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS analysis`,
		`CREATE TABLE IF NOT EXISTS analysis.records (
			id          BIGSERIAL PRIMARY KEY,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ticker      TEXT NOT NULL,
			decision    TEXT NOT NULL,
			full_report TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_ticker ON analysis.records (ticker, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS analysis.screening_runs (
			id             BIGSERIAL PRIMARY KEY,
			run_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			total_input    INT NOT NULL,
			passed_tickers TEXT[] NOT NULL,
			rejections     JSONB NOT NULL,
			fallback       BOOLEAN NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize storage schema: %w", err)
		}
	}

	r.log.Info("storage schema ready")
	return nil
}

// Persist stores one completed analysis and returns the saved record
// with its assigned id and timestamp.
func (r *Repository) Persist(ctx context.Context, ticker, report string) (*contracts.AnalysisRecord, error) {
	record := &contracts.AnalysisRecord{
		Ticker:     ticker,
		Decision:   ParseDecision(report),
		FullReport: report,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO analysis.records (ticker, decision, full_report)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		record.Ticker, string(record.Decision), record.FullReport,
	).Scan(&record.ID, &record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to persist analysis record for %s: %w", ticker, err)
	}

	r.log.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"decision": record.Decision,
		"id":       record.ID,
	}).Info("analysis record saved")

	return record, nil
}

// SaveScreeningRun stores a snapshot of one screening run.
func (r *Repository) SaveScreeningRun(ctx context.Context, totalInput int, report *contracts.ScreenReport) error {
	rejections, err := json.Marshal(report.Rejections)
	if err != nil {
		return fmt.Errorf("failed to encode rejections: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analysis.screening_runs (total_input, passed_tickers, rejections, fallback)
		VALUES ($1, $2, $3, $4)`,
		totalInput, report.Candidates, rejections, report.Fallback,
	)
	if err != nil {
		return fmt.Errorf("failed to save screening run: %w", err)
	}
	return nil
}

// ListRecent returns the newest records across all tickers, newest
// first, up to limit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]contracts.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, ticker, decision, full_report
		FROM analysis.records
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByTicker returns the newest records for one ticker, newest first.
func (r *Repository) ListByTicker(ctx context.Context, ticker string, limit int) ([]contracts.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, ticker, decision, full_report
		FROM analysis.records
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis records for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows pgxRows) ([]contracts.AnalysisRecord, error) {
	var records []contracts.AnalysisRecord
	for rows.Next() {
		var rec contracts.AnalysisRecord
		var decision string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Ticker, &decision, &rec.FullReport); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		rec.Decision = contracts.Decision(decision)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analysis records: %w", err)
	}
	return records, nil
}
