package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/mux"

	"stockpilot/internal/contracts"
	"stockpilot/internal/pipeline"
	"stockpilot/pkg/database"
	"stockpilot/pkg/logger"
)

// RecordLister reads persisted analysis records.
type RecordLister interface {
	ListRecent(ctx context.Context, limit int) ([]contracts.AnalysisRecord, error)
	ListByTicker(ctx context.Context, ticker string, limit int) ([]contracts.AnalysisRecord, error)
}

// Handler serves the REST endpoints.
type Handler struct {
	records RecordLister
	db      *database.DB
	pipe    *pipeline.Pipeline
	opts    pipeline.Options
	logger  *logger.Logger

	// running guards against overlapping pipeline runs.
	running int32
}

// NewHandler creates the API handler. records and db may be nil when
// no database is configured; record endpoints then return 503.
func NewHandler(records RecordLister, db *database.DB, pipe *pipeline.Pipeline, opts pipeline.Options, log *logger.Logger) *Handler {
	return &Handler{
		records: records,
		db:      db,
		pipe:    pipe,
		opts:    opts,
		logger:  log,
	}
}

// Health reports service and database health.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": "stockpilot-api",
	}

	if h.db != nil {
		if status, err := h.db.HealthCheck(r.Context()); err != nil {
			body["status"] = "degraded"
			body["database"] = status
		} else {
			body["database"] = status
		}
	}

	writeJSON(w, http.StatusOK, body)
}

// ListRecords returns the newest records across all tickers.
// GET /api/records?limit=N
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return
	}

	records, err := h.records.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		h.logger.WithError(err).Error("failed to list records")
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// ListRecordsByTicker returns the newest records for one ticker.
// GET /api/records/{ticker}?limit=N
func (h *Handler) ListRecordsByTicker(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return
	}

	ticker := mux.Vars(r)["ticker"]
	records, err := h.records.ListByTicker(r.Context(), ticker, queryLimit(r))
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("failed to list records")
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"records": records,
		"count":   len(records),
	})
}

// TriggerRun starts one pipeline cycle in the background. At most one
// cycle runs at a time; a second trigger while one is in flight
// returns 409.
// POST /api/run
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if !atomic.CompareAndSwapInt32(&h.running, 0, 1) {
		writeError(w, http.StatusConflict, "a pipeline run is already in progress")
		return
	}

	go func() {
		defer atomic.StoreInt32(&h.running, 0)
		if _, err := h.pipe.Run(context.Background(), h.opts); err != nil {
			h.logger.WithError(err).Error("triggered pipeline run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
	})
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 20
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
