package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timetablehub/scheduler-api/internal/dto"
	"github.com/timetablehub/scheduler-api/internal/models"
	appErrors "github.com/timetablehub/scheduler-api/pkg/errors"
)

type fakeDatasetStore struct {
	byID    map[string]*models.Dataset
	created []*models.Dataset
}

func newFakeDatasetStore() *fakeDatasetStore {
	return &fakeDatasetStore{byID: make(map[string]*models.Dataset)}
}

func (f *fakeDatasetStore) Create(ctx context.Context, ds *models.Dataset) error {
	ds.ID = "dataset-1"
	f.byID[ds.ID] = ds
	f.created = append(f.created, ds)
	return nil
}

func (f *fakeDatasetStore) GetByID(ctx context.Context, id string) (*models.Dataset, error) {
	ds, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return ds, nil
}

func (f *fakeDatasetStore) List(ctx context.Context, limit int) ([]models.Dataset, error) {
	return nil, nil
}

func sampleDatasetRequest() dto.CreateDatasetRequest {
	return dto.CreateDatasetRequest{
		Name:     "Fall Term",
		Subjects: []dto.SubjectInput{{ID: 1, Name: "Math"}},
		Teachers: []dto.TeacherInput{{ID: 1, Name: "Ms. Lee", SubjectIDs: []int{1}}},
		Classes:  []dto.ClassInput{{ID: 1, Name: "10A", Grade: 10}},
	}
}

func TestDatasetServiceCreatePersistsValidRequest(t *testing.T) {
	store := newFakeDatasetStore()
	svc := NewDatasetService(store)

	resp, err := svc.Create(context.Background(), sampleDatasetRequest())
	require.NoError(t, err)
	require.Equal(t, "dataset-1", resp.ID)
	require.Equal(t, 1, resp.SubjectCount)
	require.Equal(t, 1, resp.TeacherCount)
	require.Equal(t, 1, resp.ClassCount)
	require.Len(t, store.created, 1)
}

func TestDatasetServiceCreateRejectsUnknownSubjectReference(t *testing.T) {
	store := newFakeDatasetStore()
	svc := NewDatasetService(store)

	req := sampleDatasetRequest()
	req.Teachers[0].SubjectIDs = []int{99}

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDatasetServiceCreateRejectsTeacherWithNoSubjects(t *testing.T) {
	store := newFakeDatasetStore()
	svc := NewDatasetService(store)

	req := sampleDatasetRequest()
	req.Teachers[0].SubjectIDs = nil

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestDatasetServiceGetReturnsNotFound(t *testing.T) {
	store := newFakeDatasetStore()
	svc := NewDatasetService(store)

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestDatasetServiceGetReturnsStoredDataset(t *testing.T) {
	store := newFakeDatasetStore()
	svc := NewDatasetService(store)

	created, err := svc.Create(context.Background(), sampleDatasetRequest())
	require.NoError(t, err)

	ds, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Fall Term", ds.Name)
}
