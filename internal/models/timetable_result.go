package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/timetablehub/scheduler-api/internal/core"
)

// TimetableResultPayload is the engine's JSON contract, persisted as-is so
// a result never needs recomputing from the raw schedule.
type TimetableResultPayload struct {
	Schedule   core.ScheduleOutput `json:"schedule"`
	Cancelled  bool                `json:"cancelled"`
}

// Value marshals the payload to JSON for persistence.
func (p TimetableResultPayload) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal timetable result payload: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload back into TimetableResultPayload.
func (p *TimetableResultPayload) Scan(value interface{}) error {
	if value == nil {
		*p = TimetableResultPayload{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for TimetableResultPayload", value)
	}
	if len(data) == 0 {
		*p = TimetableResultPayload{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal timetable result payload: %w", err)
	}
	return nil
}

// TimetableResult is the persisted, completed output of a timetable job.
type TimetableResult struct {
	JobID   string                  `db:"job_id" json:"jobId"`
	Payload TimetableResultPayload  `db:"payload" json:"payload"`
}
