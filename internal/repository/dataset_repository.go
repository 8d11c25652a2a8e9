package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/timetablehub/scheduler-api/internal/models"
)

// DatasetRepository persists uploaded curriculum datasets.
type DatasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository constructs the repository.
func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Create inserts a new dataset row with a generated id.
func (r *DatasetRepository) Create(ctx context.Context, ds *models.Dataset) error {
	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO datasets (id, name, tables, created_at)
VALUES (:id, :name, :tables, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ds); err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	return nil
}

// GetByID returns a dataset row by its identifier.
func (r *DatasetRepository) GetByID(ctx context.Context, id string) (*models.Dataset, error) {
	const query = `SELECT id, name, tables, created_at FROM datasets WHERE id = $1`
	var ds models.Dataset
	if err := r.db.GetContext(ctx, &ds, query, id); err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return &ds, nil
}

// List returns the most recently uploaded datasets, newest first.
func (r *DatasetRepository) List(ctx context.Context, limit int) ([]models.Dataset, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, name, tables, created_at FROM datasets ORDER BY created_at DESC LIMIT $1`
	var datasets []models.Dataset
	if err := r.db.SelectContext(ctx, &datasets, query, limit); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return datasets, nil
}
