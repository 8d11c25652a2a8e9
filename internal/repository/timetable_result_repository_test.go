package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/internal/models"
)

func newTimetableResultRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestTimetableResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newTimetableResultRepoMock(t)
	defer cleanup()

	repo := NewTimetableResultRepository(db)
	mock.ExpectExec("INSERT INTO timetable_results").
		WithArgs("job-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.TimetableResult{
		JobID: "job-1",
		Payload: models.TimetableResultPayload{
			Schedule: core.ScheduleOutput{FitnessScore: 950, Generation: 42},
		},
	}
	require.NoError(t, repo.Upsert(context.Background(), result))
}

func TestTimetableResultRepositoryGetByJobID(t *testing.T) {
	db, mock, cleanup := newTimetableResultRepoMock(t)
	defer cleanup()

	repo := NewTimetableResultRepository(db)
	payloadJSON, err := json.Marshal(models.TimetableResultPayload{
		Schedule: core.ScheduleOutput{FitnessScore: 950, Generation: 42},
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"job_id", "payload"}).
		AddRow("job-1", payloadJSON)
	mock.ExpectQuery("SELECT job_id, payload FROM timetable_results WHERE job_id = \\$1").
		WithArgs("job-1").
		WillReturnRows(rows)

	result, err := repo.GetByJobID(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, float64(950), result.Payload.Schedule.FitnessScore)
	require.Equal(t, 42, result.Payload.Schedule.Generation)
}
