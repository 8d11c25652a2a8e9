package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/timetablehub/scheduler-api/internal/dto"
	"github.com/timetablehub/scheduler-api/internal/models"
	appErrors "github.com/timetablehub/scheduler-api/pkg/errors"
)

type datasetStore interface {
	Create(ctx context.Context, ds *models.Dataset) error
	GetByID(ctx context.Context, id string) (*models.Dataset, error)
	List(ctx context.Context, limit int) ([]models.Dataset, error)
}

// DatasetService validates and persists uploaded curriculum datasets.
type DatasetService struct {
	repo datasetStore
}

// NewDatasetService constructs the dataset service.
func NewDatasetService(repo datasetStore) *DatasetService {
	return &DatasetService{repo: repo}
}

// Create validates the uploaded tables and persists them as a dataset.
func (s *DatasetService) Create(ctx context.Context, req dto.CreateDatasetRequest) (*dto.DatasetResponse, error) {
	if err := validateDatasetTables(req); err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Name: req.Name,
		Tables: models.DatasetTables{
			Subjects: toModelSubjects(req.Subjects),
			Teachers: toModelTeachers(req.Teachers),
			Classes:  toModelClasses(req.Classes),
		},
	}
	if err := s.repo.Create(ctx, ds); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create dataset")
	}
	return toDatasetResponse(ds), nil
}

// Get returns a stored dataset by id.
func (s *DatasetService) Get(ctx context.Context, id string) (*models.Dataset, error) {
	ds, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dataset")
	}
	return ds, nil
}

func validateDatasetTables(req dto.CreateDatasetRequest) error {
	subjectIDs := make(map[int]bool, len(req.Subjects))
	for _, s := range req.Subjects {
		subjectIDs[s.ID] = true
	}
	for _, t := range req.Teachers {
		if len(t.SubjectIDs) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "teacher "+t.Name+" must be qualified for at least one subject")
		}
		for _, sid := range t.SubjectIDs {
			if !subjectIDs[sid] {
				return appErrors.Clone(appErrors.ErrValidation, "teacher references unknown subject id")
			}
		}
	}
	return nil
}

func toModelSubjects(in []dto.SubjectInput) []models.DatasetSubject {
	out := make([]models.DatasetSubject, len(in))
	for i, s := range in {
		out[i] = models.DatasetSubject{ID: s.ID, Name: s.Name}
	}
	return out
}

func toModelTeachers(in []dto.TeacherInput) []models.DatasetTeacher {
	out := make([]models.DatasetTeacher, len(in))
	for i, t := range in {
		out[i] = models.DatasetTeacher{ID: t.ID, Name: t.Name, SubjectIDs: t.SubjectIDs}
	}
	return out
}

func toModelClasses(in []dto.ClassInput) []models.DatasetClass {
	out := make([]models.DatasetClass, len(in))
	for i, c := range in {
		out[i] = models.DatasetClass{ID: c.ID, Name: c.Name, Grade: c.Grade}
	}
	return out
}

func toDatasetResponse(ds *models.Dataset) *dto.DatasetResponse {
	return &dto.DatasetResponse{
		ID:           ds.ID,
		Name:         ds.Name,
		SubjectCount: len(ds.Tables.Subjects),
		TeacherCount: len(ds.Tables.Teachers),
		ClassCount:   len(ds.Tables.Classes),
		CreatedAt:    ds.CreatedAt,
	}
}
