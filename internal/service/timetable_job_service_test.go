package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/internal/dto"
	"github.com/timetablehub/scheduler-api/internal/models"
	"github.com/timetablehub/scheduler-api/pkg/jobs"
)

type fakeDispatcher struct {
	enqueued []jobs.Job
	failWith error
}

func (f *fakeDispatcher) Enqueue(job jobs.Job) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

func TestTimetableJobServiceCreateJobRejectsUnknownDataset(t *testing.T) {
	jobStore := newFakeJobStore(&models.TimetableJob{ID: "unused"})
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	dispatcher := &fakeDispatcher{}

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})

	_, err := svc.CreateJob(context.Background(), dto.CreateTimetableJobRequest{DatasetID: "missing"})
	require.Error(t, err)
	require.Empty(t, dispatcher.enqueued)
}

func TestTimetableJobServiceCreateJobQueuesAndEnqueues(t *testing.T) {
	jobStore := newFakeJobStore(&models.TimetableJob{ID: "unused"})
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	dispatcher := &fakeDispatcher{}

	ds := &models.Dataset{}
	require.NoError(t, datasetStore.Create(context.Background(), ds))

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})

	resp, err := svc.CreateJob(context.Background(), dto.CreateTimetableJobRequest{DatasetID: ds.ID})
	require.NoError(t, err)
	require.Equal(t, "QUEUED", resp.Status)
	require.Len(t, dispatcher.enqueued, 1)
}

func TestTimetableJobServiceCreateJobMarksFailedWhenEnqueueFails(t *testing.T) {
	jobStore := newFakeJobStore(&models.TimetableJob{ID: "unused"})
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	dispatcher := &fakeDispatcher{failWith: errors.New("queue full")}

	ds := &models.Dataset{}
	require.NoError(t, datasetStore.Create(context.Background(), ds))

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})

	_, err := svc.CreateJob(context.Background(), dto.CreateTimetableJobRequest{DatasetID: ds.ID})
	require.Error(t, err)
	require.Len(t, jobStore.update, 1)
	require.Equal(t, models.TimetableJobStatusFailed, *jobStore.update[0].Status)
}

func TestTimetableJobServiceGetResultRejectsUnfinishedJob(t *testing.T) {
	job := &models.TimetableJob{ID: "job-1", Status: models.TimetableJobStatusRunning}
	jobStore := newFakeJobStore(job)
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	dispatcher := &fakeDispatcher{}

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})

	_, err := svc.GetResult(context.Background(), "job-1")
	require.Error(t, err)
}

func TestTimetableJobServiceGetResultReturnsFinishedOutput(t *testing.T) {
	job := &models.TimetableJob{ID: "job-1", Status: models.TimetableJobStatusDone}
	jobStore := newFakeJobStore(job)
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	require.NoError(t, resultStore.Upsert(context.Background(), &models.TimetableResult{
		JobID:   "job-1",
		Payload: models.TimetableResultPayload{Schedule: core.ScheduleOutput{FitnessScore: 900, Generation: 12}},
	}))
	dispatcher := &fakeDispatcher{}

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})

	resp, err := svc.GetResult(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, float64(900), resp.FitnessScore)
	require.Equal(t, 12, resp.Generation)
}

func TestTimetableJobServiceGetScheduleOutputReturnsRawOutput(t *testing.T) {
	job := &models.TimetableJob{ID: "job-1", Status: models.TimetableJobStatusCancelled}
	jobStore := newFakeJobStore(job)
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	require.NoError(t, resultStore.Upsert(context.Background(), &models.TimetableResult{
		JobID:   "job-1",
		Payload: models.TimetableResultPayload{Schedule: core.ScheduleOutput{FitnessScore: 450}, Cancelled: true},
	}))
	dispatcher := &fakeDispatcher{}

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})

	out, err := svc.GetScheduleOutput(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, float64(450), out.FitnessScore)
}

func TestTimetableJobServiceRecoverPendingJobsRequeuesQueued(t *testing.T) {
	job := &models.TimetableJob{ID: "job-1", Status: models.TimetableJobStatusQueued}
	jobStore := newFakeJobStore(job)
	datasetStore := newFakeDatasetStore()
	resultStore := newFakeResultStore()
	dispatcher := &fakeDispatcher{}

	svc := NewTimetableJobService(jobStore, datasetStore, resultStore, nil, dispatcher, nil, TimetableJobServiceConfig{Defaults: core.DefaultConfig()})
	svc.RecoverPendingJobs(context.Background())

	require.Len(t, dispatcher.enqueued, 1)
	require.Equal(t, "job-1", dispatcher.enqueued[0].ID)
}
