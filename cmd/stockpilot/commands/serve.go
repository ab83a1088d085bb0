package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stockpilot/internal/api"
	"stockpilot/internal/store"
	"stockpilot/pkg/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the REST API: persisted records, on-demand pipeline runs, and
a WebSocket stream of job events.

Endpoints:
  GET  /health
  GET  /api/records
  GET  /api/records/{ticker}
  POST /api/run
  GET  /api/ws

Example:
  stockpilot serve
  PORT=9000 stockpilot serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var repo *store.Repository
	var lister api.RecordLister
	var db *database.DB
	if cfg.Database.URL != "" {
		conn, r, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer conn.Close()
		db = conn
		repo = r
		lister = r
	} else {
		log.Warn("DATABASE_URL not set, record endpoints disabled")
	}

	hub := api.NewHub(log)
	pipe := buildPipeline(cfg, repo, log, hub)
	handler := api.NewHandler(lister, db, pipe, pipelineOptions(cfg), log)
	server := api.New(cfg, log, api.NewRouter(handler, hub, log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
