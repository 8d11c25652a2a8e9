package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/internal/models"
	"github.com/timetablehub/scheduler-api/internal/repository"
	"github.com/timetablehub/scheduler-api/pkg/jobs"
)

type fakeJobStore struct {
	byID   map[string]*models.TimetableJob
	update []repository.UpdateTimetableJobParams
}

func newFakeJobStore(job *models.TimetableJob) *fakeJobStore {
	return &fakeJobStore{byID: map[string]*models.TimetableJob{job.ID: job}}
}

func (f *fakeJobStore) Create(ctx context.Context, job *models.TimetableJob) error {
	f.byID[job.ID] = job
	return nil
}

func (f *fakeJobStore) GetByID(ctx context.Context, id string) (*models.TimetableJob, error) {
	job, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (f *fakeJobStore) Update(ctx context.Context, id string, params repository.UpdateTimetableJobParams) error {
	job, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Generation != nil {
		job.Generation = *params.Generation
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.StartedAt != nil {
		job.StartedAt = params.StartedAt
	}
	if params.CompletedAt != nil {
		job.CompletedAt = params.CompletedAt
	}
	f.update = append(f.update, params)
	return nil
}

func (f *fakeJobStore) ListQueued(ctx context.Context, limit int) ([]models.TimetableJob, error) {
	var out []models.TimetableJob
	for _, job := range f.byID {
		if job.Status == models.TimetableJobStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

type fakeResultStore struct {
	byJobID map[string]*models.TimetableResult
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{byJobID: make(map[string]*models.TimetableResult)}
}

func (f *fakeResultStore) Upsert(ctx context.Context, result *models.TimetableResult) error {
	f.byJobID[result.JobID] = result
	return nil
}

func (f *fakeResultStore) GetByJobID(ctx context.Context, jobID string) (*models.TimetableResult, error) {
	result, ok := f.byJobID[jobID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return result, nil
}

func feasibleDataset() *models.Dataset {
	return &models.Dataset{
		ID: "dataset-1",
		Tables: models.DatasetTables{
			Subjects: []models.DatasetSubject{{ID: 1, Name: "Math"}},
			Teachers: []models.DatasetTeacher{{ID: 1, Name: "Ms. Lee", SubjectIDs: []int{1}}},
			Classes:  []models.DatasetClass{{ID: 1, Name: "10A"}},
		},
	}
}

type fakeDatasetStoreForWorker struct {
	ds *models.Dataset
}

func (f *fakeDatasetStoreForWorker) Create(ctx context.Context, ds *models.Dataset) error {
	return nil
}

func (f *fakeDatasetStoreForWorker) GetByID(ctx context.Context, id string) (*models.Dataset, error) {
	if id != f.ds.ID {
		return nil, sql.ErrNoRows
	}
	return f.ds, nil
}

func (f *fakeDatasetStoreForWorker) List(ctx context.Context, limit int) ([]models.Dataset, error) {
	return nil, nil
}

func tinyEngineConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.PopulationSize = 6
	cfg.Generations = 2
	cfg.TournamentSize = 2
	cfg.Seed = 7
	return cfg
}

func TestTimetableJobWorkerHandleMarksDone(t *testing.T) {
	job := &models.TimetableJob{ID: "job-1", DatasetID: "dataset-1", Status: models.TimetableJobStatusQueued}
	jobStore := newFakeJobStore(job)
	resultStore := newFakeResultStore()
	datasetStore := &fakeDatasetStoreForWorker{ds: feasibleDataset()}

	worker := NewTimetableJobWorker(jobStore, datasetStore, resultStore, tinyEngineConfig(), nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.NoError(t, err)
	require.Equal(t, models.TimetableJobStatusDone, job.Status)

	result, err := resultStore.GetByJobID(context.Background(), "job-1")
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestTimetableJobWorkerHandleFailsOnMissingDataset(t *testing.T) {
	job := &models.TimetableJob{ID: "job-1", DatasetID: "missing-dataset", Status: models.TimetableJobStatusQueued}
	jobStore := newFakeJobStore(job)
	resultStore := newFakeResultStore()
	datasetStore := &fakeDatasetStoreForWorker{ds: feasibleDataset()}

	worker := NewTimetableJobWorker(jobStore, datasetStore, resultStore, tinyEngineConfig(), nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.Error(t, err)
	require.Equal(t, models.TimetableJobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
}
