package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/internal/dto"
	"github.com/timetablehub/scheduler-api/internal/models"
	"github.com/timetablehub/scheduler-api/internal/repository"
	appErrors "github.com/timetablehub/scheduler-api/pkg/errors"
	"github.com/timetablehub/scheduler-api/pkg/jobs"
)

type timetableJobStore interface {
	Create(ctx context.Context, job *models.TimetableJob) error
	GetByID(ctx context.Context, id string) (*models.TimetableJob, error)
	Update(ctx context.Context, id string, params repository.UpdateTimetableJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.TimetableJob, error)
}

type timetableResultStore interface {
	Upsert(ctx context.Context, result *models.TimetableResult) error
	GetByJobID(ctx context.Context, jobID string) (*models.TimetableResult, error)
}

type timetableJobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// TimetableJobServiceConfig carries the engine defaults a request's
// SchedulerParams override is layered on top of.
type TimetableJobServiceConfig struct {
	Defaults core.Config
}

// TimetableJobService queues and reports on timetable optimization runs.
type TimetableJobService struct {
	jobs     timetableJobStore
	datasets datasetStore
	results  timetableResultStore
	cache    *CacheService
	queue    timetableJobDispatcher
	logger   *zap.Logger
	cfg      TimetableJobServiceConfig
}

// NewTimetableJobService constructs the timetable job service. cache may
// be nil, in which case results are always read from the repository.
func NewTimetableJobService(jobs timetableJobStore, datasets datasetStore, results timetableResultStore, cache *CacheService, queue timetableJobDispatcher, logger *zap.Logger, cfg TimetableJobServiceConfig) *TimetableJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableJobService{jobs: jobs, datasets: datasets, results: results, cache: cache, queue: queue, logger: logger, cfg: cfg}
}

// CreateJob validates the dataset reference, persists a queued job, and
// enqueues it for processing.
func (s *TimetableJobService) CreateJob(ctx context.Context, req dto.CreateTimetableJobRequest) (*dto.TimetableJobResponse, error) {
	if _, err := s.datasets.GetByID(ctx, req.DatasetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dataset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dataset")
	}

	job := &models.TimetableJob{
		DatasetID: req.DatasetID,
		Params:    toJobParams(req.Params),
		Status:    models.TimetableJobStatusQueued,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "timetable_job"}); err != nil {
		failed := models.TimetableJobStatusFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		_ = s.jobs.Update(ctx, job.ID, repository.UpdateTimetableJobParams{
			Status:       &failed,
			ErrorMessage: &msg,
			CompletedAt:  &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue timetable job")
	}

	return toJobResponse(job), nil
}

// GetStatus returns a job's current lifecycle state.
func (s *TimetableJobService) GetStatus(ctx context.Context, id string) (*dto.TimetableJobResponse, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable job")
	}
	return toJobResponse(job), nil
}

// GetScheduleOutput returns the raw engine output for a finished job, used
// by the export handlers which need the nested schedule map directly.
func (s *TimetableJobService) GetScheduleOutput(ctx context.Context, id string) (*core.ScheduleOutput, error) {
	result, err := s.loadResult(ctx, id)
	if err != nil {
		return nil, err
	}
	return &result.Payload.Schedule, nil
}

// GetResult returns the completed output for a finished job.
func (s *TimetableJobService) GetResult(ctx context.Context, id string) (*dto.TimetableResultResponse, error) {
	result, err := s.loadResult(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TimetableResultResponse{
		JobID:        id,
		FitnessScore: result.Payload.Schedule.FitnessScore,
		Generation:   result.Payload.Schedule.Generation,
		Cancelled:    result.Payload.Cancelled,
		Schedule:     result.Payload.Schedule.Schedule,
		Statistics:   result.Payload.Schedule.Statistics,
	}, nil
}

// loadResult fetches a finished job's result, consulting the result cache
// before falling back to the repository.
func (s *TimetableJobService) loadResult(ctx context.Context, id string) (*models.TimetableResult, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable job")
	}
	if job.Status != models.TimetableJobStatusDone && job.Status != models.TimetableJobStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "timetable job has not finished")
	}

	cacheKey := "timetable-result:" + id
	var cached models.TimetableResult
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	result, err := s.results.GetByJobID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable result")
	}

	_ = s.cache.Set(ctx, cacheKey, result, 0)
	return result, nil
}

// RecoverPendingJobs replays queued jobs after a process restart.
func (s *TimetableJobService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.jobs.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued timetable jobs", "error", err)
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "timetable_job"}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending timetable job", "job_id", job.ID, "error", err)
		}
	}
}

func toJobParams(p dto.SchedulerParams) models.TimetableJobParams {
	return models.TimetableJobParams{
		PopulationSize: p.PopulationSize,
		Generations:    p.Generations,
		MutationRate:   p.MutationRate,
		TournamentSize: p.TournamentSize,
		Seed:           p.Seed,
	}
}

func toJobResponse(job *models.TimetableJob) *dto.TimetableJobResponse {
	resp := &dto.TimetableJobResponse{
		ID:          job.ID,
		DatasetID:   job.DatasetID,
		Status:      string(job.Status),
		Generation:  job.Generation,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.ErrorMessage != nil {
		resp.Error = *job.ErrorMessage
	}
	return resp
}

// resolveConfig layers a job's stored overrides on top of the service's
// engine defaults. A zero-valued override field keeps the default.
func resolveConfig(defaults core.Config, params models.TimetableJobParams) core.Config {
	cfg := defaults
	if params.PopulationSize > 0 {
		cfg.PopulationSize = params.PopulationSize
	}
	if params.Generations > 0 {
		cfg.Generations = params.Generations
	}
	if params.MutationRate > 0 {
		cfg.MutationRate = params.MutationRate
	}
	if params.TournamentSize > 0 {
		cfg.TournamentSize = params.TournamentSize
	}
	cfg.Seed = params.Seed
	return cfg
}

func toCoreDataset(ds *models.Dataset) core.Dataset {
	subjects := make([]core.Subject, len(ds.Tables.Subjects))
	for i, s := range ds.Tables.Subjects {
		subjects[i] = core.Subject{ID: s.ID, Name: s.Name}
	}
	teachers := make([]core.Teacher, len(ds.Tables.Teachers))
	for i, t := range ds.Tables.Teachers {
		subjectSet := make(map[int]struct{}, len(t.SubjectIDs))
		for _, sid := range t.SubjectIDs {
			subjectSet[sid] = struct{}{}
		}
		teachers[i] = core.Teacher{ID: t.ID, Name: t.Name, Subjects: subjectSet}
	}
	classes := make([]core.Class, len(ds.Tables.Classes))
	for i, c := range ds.Tables.Classes {
		classes[i] = core.Class{ID: c.ID, Name: c.Name, Grade: c.Grade}
	}
	return core.Dataset{Subjects: subjects, Teachers: teachers, Classes: classes}
}
