package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stockpilot/internal/scheduler"
	"stockpilot/internal/store"
)

var scheduleCron string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Starts a scheduler that runs one full pipeline cycle on the
configured cron schedule (seconds-resolution expressions). The default
fires at 16:30 on weekdays.

Example:
  stockpilot schedule
  stockpilot schedule --cron "0 0 18 * * 1-5"`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression (overrides PIPELINE_CRON)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if scheduleCron != "" {
		cfg.Schedule.Cron = scheduleCron
	}

	ctx := context.Background()

	var repo *store.Repository
	if cfg.Database.URL != "" {
		db, r, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()
		repo = r
	} else {
		log.Warn("DATABASE_URL not set, scheduled runs will not persist")
	}

	pipe := buildPipeline(cfg, repo, log, nil)

	sched := scheduler.New(log)
	job := scheduler.NewPipelineJob(pipe, pipelineOptions(cfg), cfg.Schedule.Cron)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	fmt.Printf("Scheduler running (%s). Press Ctrl+C to stop.\n", cfg.Schedule.Cron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
