package scheduler

import (
	"context"

	"stockpilot/internal/pipeline"
)

// PipelineJob runs one full pipeline cycle on a cron schedule.
type PipelineJob struct {
	pipe     *pipeline.Pipeline
	opts     pipeline.Options
	schedule string
}

// NewPipelineJob wraps a pipeline run as a scheduled job.
func NewPipelineJob(pipe *pipeline.Pipeline, opts pipeline.Options, schedule string) *PipelineJob {
	return &PipelineJob{pipe: pipe, opts: opts, schedule: schedule}
}

func (j *PipelineJob) Name() string { return "analysis-pipeline" }

func (j *PipelineJob) Schedule() string { return j.schedule }

func (j *PipelineJob) Run(ctx context.Context) error {
	_, err := j.pipe.Run(ctx, j.opts)
	return err
}
