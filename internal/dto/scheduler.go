package dto

import "time"

// SubjectInput describes one curriculum subject within a dataset upload.
type SubjectInput struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// TeacherInput describes one teacher and the subject ids they can teach.
type TeacherInput struct {
	ID         int    `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	SubjectIDs []int  `json:"subjectIds" validate:"required,min=1,dive,min=1"`
}

// ClassInput describes one homeroom class to schedule lessons for.
type ClassInput struct {
	ID    int    `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Grade int    `json:"grade" validate:"omitempty,min=1"`
}

// CreateDatasetRequest uploads the curriculum tables a timetable job runs
// against.
type CreateDatasetRequest struct {
	Name     string         `json:"name" validate:"required"`
	Subjects []SubjectInput `json:"subjects" validate:"required,min=1,dive"`
	Teachers []TeacherInput `json:"teachers" validate:"required,min=1,dive"`
	Classes  []ClassInput   `json:"classes" validate:"required,min=1,dive"`
}

// DatasetResponse describes a stored dataset.
type DatasetResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SubjectCount  int       `json:"subjectCount"`
	TeacherCount  int       `json:"teacherCount"`
	ClassCount    int       `json:"classCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SchedulerParams overrides the genetic-algorithm defaults for one run. Any
// zero value falls back to the engine default.
type SchedulerParams struct {
	PopulationSize int     `json:"populationSize" validate:"omitempty,min=2,max=2000"`
	Generations    int     `json:"generations" validate:"omitempty,min=0,max=10000"`
	MutationRate   float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	TournamentSize int     `json:"tournamentSize" validate:"omitempty,min=1"`
	Seed           int64   `json:"seed"`
}

// CreateTimetableJobRequest queues a new optimization run against an
// already-uploaded dataset.
type CreateTimetableJobRequest struct {
	DatasetID string          `json:"datasetId" validate:"required,uuid4"`
	Params    SchedulerParams `json:"params"`
}

// TimetableJobResponse reports a job's lifecycle state.
type TimetableJobResponse struct {
	ID          string     `json:"id"`
	DatasetID   string     `json:"datasetId"`
	Status      string     `json:"status"`
	Generation  int        `json:"generation,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TimetableResultResponse is the completed run's timetable, reusing the
// engine's own wire contract for the schedule body.
type TimetableResultResponse struct {
	JobID        string  `json:"jobId"`
	FitnessScore float64 `json:"fitnessScore"`
	Generation   int     `json:"generation"`
	Cancelled    bool    `json:"cancelled"`
	Schedule     any     `json:"schedule"`
	Statistics   any     `json:"statistics"`
}

// ExportFormat is the requested flattened-export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportTimetableQuery selects the export encoding for a completed job.
// AsLink requests a signed, shareable download URL instead of a direct
// byte stream.
type ExportTimetableQuery struct {
	Format ExportFormat `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
	AsLink bool         `form:"as_link" json:"asLink"`
}

// ExportLinkResponse is returned when a signed download link was requested.
type ExportLinkResponse struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
