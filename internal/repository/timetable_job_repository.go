package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/timetablehub/scheduler-api/internal/models"
)

// TimetableJobRepository persists timetable optimization job metadata.
type TimetableJobRepository struct {
	db *sqlx.DB
}

// NewTimetableJobRepository constructs the repository.
func NewTimetableJobRepository(db *sqlx.DB) *TimetableJobRepository {
	return &TimetableJobRepository{db: db}
}

// Create inserts a new job row, defaulting id, status, and created_at.
func (r *TimetableJobRepository) Create(ctx context.Context, job *models.TimetableJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.TimetableJobStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timetable_jobs (id, dataset_id, params, status, generation, error_message, created_at, started_at, completed_at)
VALUES (:id, :dataset_id, :params, :status, :generation, :error_message, :created_at, :started_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create timetable job: %w", err)
	}
	return nil
}

// GetByID returns a job row by its identifier.
func (r *TimetableJobRepository) GetByID(ctx context.Context, id string) (*models.TimetableJob, error) {
	const query = `SELECT id, dataset_id, params, status, generation, error_message, created_at, started_at, completed_at
FROM timetable_jobs WHERE id = $1`
	var job models.TimetableJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, fmt.Errorf("get timetable job: %w", err)
	}
	return &job, nil
}

// UpdateTimetableJobParams defines the mutable fields of a job row.
type UpdateTimetableJobParams struct {
	Status       *models.TimetableJobStatus
	Generation   *int
	ErrorMessage *string
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// Update persists the provided changes for a job row.
func (r *TimetableJobRepository) Update(ctx context.Context, id string, params UpdateTimetableJobParams) error {
	set := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	argPos := 1

	if params.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.Generation != nil {
		set = append(set, fmt.Sprintf("generation = $%d", argPos))
		args = append(args, *params.Generation)
		argPos++
	}
	if params.ErrorMessage != nil {
		set = append(set, fmt.Sprintf("error_message = $%d", argPos))
		args = append(args, *params.ErrorMessage)
		argPos++
	}
	if params.StartedAt != nil {
		set = append(set, fmt.Sprintf("started_at = $%d", argPos))
		args = append(args, *params.StartedAt)
		argPos++
	}
	if params.CompletedAt != nil {
		set = append(set, fmt.Sprintf("completed_at = $%d", argPos))
		args = append(args, *params.CompletedAt)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE timetable_jobs SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update timetable job: %w", err)
	}
	return nil
}

// ListQueued fetches queued jobs, used to repopulate the worker queue after
// a restart.
func (r *TimetableJobRepository) ListQueued(ctx context.Context, limit int) ([]models.TimetableJob, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, dataset_id, params, status, generation, error_message, created_at, started_at, completed_at
FROM timetable_jobs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1`
	var jobs []models.TimetableJob
	if err := r.db.SelectContext(ctx, &jobs, query, limit); err != nil {
		return nil, fmt.Errorf("list queued timetable jobs: %w", err)
	}
	return jobs, nil
}
