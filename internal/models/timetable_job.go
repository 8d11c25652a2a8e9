package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimetableJobStatus captures the lifecycle of one optimization run.
type TimetableJobStatus string

const (
	TimetableJobStatusQueued    TimetableJobStatus = "QUEUED"
	TimetableJobStatusRunning   TimetableJobStatus = "RUNNING"
	TimetableJobStatusDone      TimetableJobStatus = "DONE"
	TimetableJobStatusFailed    TimetableJobStatus = "FAILED"
	TimetableJobStatusCancelled TimetableJobStatus = "CANCELLED"
)

// TimetableJobParams stores the per-request engine overrides as JSONB.
type TimetableJobParams struct {
	PopulationSize int     `json:"populationSize,omitempty"`
	Generations    int     `json:"generations,omitempty"`
	MutationRate   float64 `json:"mutationRate,omitempty"`
	TournamentSize int     `json:"tournamentSize,omitempty"`
	Seed           int64   `json:"seed,omitempty"`
}

// Value marshals params to JSON for persistence.
func (p TimetableJobParams) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal timetable job params: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload back into TimetableJobParams.
func (p *TimetableJobParams) Scan(value interface{}) error {
	if value == nil {
		*p = TimetableJobParams{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for TimetableJobParams", value)
	}
	if len(data) == 0 {
		*p = TimetableJobParams{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal timetable job params: %w", err)
	}
	return nil
}

// TimetableJob is the persisted record of a queued or running optimization.
type TimetableJob struct {
	ID           string              `db:"id" json:"id"`
	DatasetID    string              `db:"dataset_id" json:"datasetId"`
	Params       TimetableJobParams  `db:"params" json:"params"`
	Status       TimetableJobStatus  `db:"status" json:"status"`
	Generation   int                 `db:"generation" json:"generation"`
	ErrorMessage *string             `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"createdAt"`
	StartedAt    *time.Time          `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt  *time.Time          `db:"completed_at" json:"completedAt,omitempty"`
}
