package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DatasetTables holds the curriculum tables a timetable job runs against,
// persisted as a single JSONB column since the shape is read-only after
// upload and never queried by field.
type DatasetTables struct {
	Subjects []DatasetSubject `json:"subjects"`
	Teachers []DatasetTeacher `json:"teachers"`
	Classes  []DatasetClass   `json:"classes"`
}

// DatasetSubject is one curriculum entry within a dataset.
type DatasetSubject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DatasetTeacher is one teacher and the subject ids they are qualified for.
type DatasetTeacher struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	SubjectIDs []int  `json:"subjectIds"`
}

// DatasetClass is one homeroom class lessons are scheduled into.
type DatasetClass struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Grade int    `json:"grade,omitempty"`
}

// Dataset is the persisted record of an uploaded curriculum set.
type Dataset struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Tables    DatasetTables `db:"tables" json:"tables"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

// Value marshals the tables to JSON for persistence.
func (t DatasetTables) Value() (driver.Value, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal dataset tables: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload back into DatasetTables.
func (t *DatasetTables) Scan(value interface{}) error {
	if value == nil {
		*t = DatasetTables{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for DatasetTables", value)
	}
	if len(data) == 0 {
		*t = DatasetTables{}
		return nil
	}
	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("unmarshal dataset tables: %w", err)
	}
	return nil
}
