package service

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/pkg/export"
	"github.com/timetablehub/scheduler-api/pkg/storage"
)

type exportFileStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

// TimetableExportService flattens a completed schedule into the tabular
// shape the CSV and PDF exporters already know how to render, and
// optionally persists the rendered file behind a signed download link.
type TimetableExportService struct {
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	storage   exportFileStore
	signer    *storage.SignedURLSigner
	apiPrefix string
}

// NewTimetableExportService constructs the export service. store and
// signer may be nil, in which case Persist/OpenToken are unavailable and only
// direct-render methods work.
func NewTimetableExportService(csv *export.CSVExporter, pdf *export.PDFExporter, store exportFileStore, signer *storage.SignedURLSigner, apiPrefix string) *TimetableExportService {
	return &TimetableExportService{csv: csv, pdf: pdf, storage: store, signer: signer, apiPrefix: apiPrefix}
}

var timetableExportHeaders = []string{"day", "slot", "class", "teacher", "subject"}

// Flatten turns the nested day/slot/class schedule map into one row per
// occupied lesson, sorted for stable output.
func Flatten(out core.ScheduleOutput) export.Dataset {
	var days []string
	for day := range out.Schedule {
		days = append(days, day)
	}
	sort.Strings(days)

	var rows []map[string]string
	for _, day := range days {
		slots := out.Schedule[day]
		var slotKeys []string
		for slot := range slots {
			slotKeys = append(slotKeys, slot)
		}
		sort.Slice(slotKeys, func(i, j int) bool {
			a, _ := strconv.Atoi(slotKeys[i])
			b, _ := strconv.Atoi(slotKeys[j])
			return a < b
		})

		for _, slot := range slotKeys {
			classes := slots[slot]
			var classNames []string
			for className := range classes {
				classNames = append(classNames, className)
			}
			sort.Strings(classNames)

			for _, className := range classNames {
				cell := classes[className]
				if cell == nil {
					continue
				}
				rows = append(rows, map[string]string{
					"day":     day,
					"slot":    slot,
					"class":   className,
					"teacher": cell.Teacher,
					"subject": cell.Subject,
				})
			}
		}
	}

	return export.Dataset{Headers: timetableExportHeaders, Rows: rows}
}

// RenderCSV produces CSV bytes for a completed schedule.
func (s *TimetableExportService) RenderCSV(out core.ScheduleOutput) ([]byte, error) {
	return s.csv.Render(Flatten(out))
}

// RenderPDF produces PDF bytes for a completed schedule.
func (s *TimetableExportService) RenderPDF(out core.ScheduleOutput, title string) ([]byte, error) {
	return s.pdf.Render(Flatten(out), title)
}

// ExportLink is a persisted export file's signed download metadata.
type ExportLink struct {
	Token     string
	URL       string
	ExpiresAt time.Time
}

// Persist renders out in the requested format, saves it to disk, and
// returns a signed, time-limited download link referencing it.
func (s *TimetableExportService) Persist(jobID string, out core.ScheduleOutput, format string) (*ExportLink, error) {
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("export persistence not configured")
	}

	var (
		payload []byte
		err     error
		ext     = format
	)
	switch format {
	case "csv":
		payload, err = s.RenderCSV(out)
	case "pdf":
		payload, err = s.RenderPDF(out, fmt.Sprintf("Timetable %s", jobID))
	default:
		return nil, fmt.Errorf("unsupported export format %s", format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("timetable_%s_%s.%s", jobID, time.Now().UTC().Format("20060102_150405"), ext)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/timetable-exports/%s", strings.TrimRight(s.apiPrefix, "/"), token)
	return &ExportLink{Token: token, URL: url, ExpiresAt: expiresAt}, nil
}

// OpenToken validates a download token and returns a handle to the
// persisted export file alongside its relative path.
func (s *TimetableExportService) OpenToken(token string) (*os.File, string, error) {
	if s.storage == nil || s.signer == nil {
		return nil, "", fmt.Errorf("export persistence not configured")
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", err
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", err
	}
	return file, relPath, nil
}
