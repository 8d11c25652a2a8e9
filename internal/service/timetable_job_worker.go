package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/internal/models"
	"github.com/timetablehub/scheduler-api/internal/repository"
	"github.com/timetablehub/scheduler-api/pkg/jobs"
)

// TimetableJobWorker drives a single queued job through dataset loading,
// GA evolution, and result persistence.
type TimetableJobWorker struct {
	jobs     timetableJobStore
	datasets datasetStore
	results  timetableResultStore
	defaults core.Config
	logger   *zap.Logger
}

// NewTimetableJobWorker constructs a worker bound to the given engine
// defaults; a job's stored SchedulerParams override them per run.
func NewTimetableJobWorker(jobStore timetableJobStore, datasets datasetStore, results timetableResultStore, defaults core.Config, logger *zap.Logger) *TimetableJobWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableJobWorker{jobs: jobStore, datasets: datasets, results: results, defaults: defaults, logger: logger}
}

// Handle runs one queued timetable job end to end.
func (w *TimetableJobWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.jobs.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}

	running := models.TimetableJobStatusRunning
	now := time.Now().UTC()
	if err := w.jobs.Update(ctx, job.ID, repository.UpdateTimetableJobParams{Status: &running, StartedAt: &now}); err != nil {
		return err
	}

	ds, err := w.datasets.GetByID(ctx, record.DatasetID)
	if err != nil {
		return w.fail(ctx, job.ID, err)
	}

	cfg := resolveConfig(w.defaults, record.Params)
	idx, err := core.NewIndex(toCoreDataset(ds), cfg.LessonsPerDay)
	if err != nil {
		return w.fail(ctx, job.ID, err)
	}

	out, err := core.NewEngine(idx, cfg).Run(ctx)
	if err != nil {
		return w.fail(ctx, job.ID, err)
	}

	scheduleOutput := core.BuildOutput(idx, out)
	payload := models.TimetableResultPayload{Schedule: scheduleOutput, Cancelled: out.Cancelled}
	if err := w.results.Upsert(ctx, &models.TimetableResult{JobID: job.ID, Payload: payload}); err != nil {
		return w.fail(ctx, job.ID, err)
	}

	status := models.TimetableJobStatusDone
	if out.Cancelled {
		status = models.TimetableJobStatusCancelled
	}
	completed := time.Now().UTC()
	generation := out.Generation
	return w.jobs.Update(ctx, job.ID, repository.UpdateTimetableJobParams{
		Status:      &status,
		Generation:  &generation,
		CompletedAt: &completed,
	})
}

func (w *TimetableJobWorker) fail(ctx context.Context, jobID string, cause error) error {
	msg := cause.Error()
	status := models.TimetableJobStatusFailed
	now := time.Now().UTC()
	if err := w.jobs.Update(ctx, jobID, repository.UpdateTimetableJobParams{
		Status:       &status,
		ErrorMessage: &msg,
		CompletedAt:  &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark timetable job failed", "job_id", jobID, "error", err)
	}
	return cause
}
