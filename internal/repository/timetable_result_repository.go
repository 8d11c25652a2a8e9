package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/timetablehub/scheduler-api/internal/models"
)

// TimetableResultRepository persists the completed output of timetable jobs.
type TimetableResultRepository struct {
	db *sqlx.DB
}

// NewTimetableResultRepository constructs the repository.
func NewTimetableResultRepository(db *sqlx.DB) *TimetableResultRepository {
	return &TimetableResultRepository{db: db}
}

// Upsert stores or replaces a job's result payload.
func (r *TimetableResultRepository) Upsert(ctx context.Context, result *models.TimetableResult) error {
	const query = `INSERT INTO timetable_results (job_id, payload) VALUES (:job_id, :payload)
ON CONFLICT (job_id) DO UPDATE SET payload = EXCLUDED.payload`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert timetable result: %w", err)
	}
	return nil
}

// GetByJobID returns the stored result for a job, if any.
func (r *TimetableResultRepository) GetByJobID(ctx context.Context, jobID string) (*models.TimetableResult, error) {
	const query = `SELECT job_id, payload FROM timetable_results WHERE job_id = $1`
	var result models.TimetableResult
	if err := r.db.GetContext(ctx, &result, query, jobID); err != nil {
		return nil, fmt.Errorf("get timetable result: %w", err)
	}
	return &result, nil
}
