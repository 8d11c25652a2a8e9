package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/timetablehub/scheduler-api/internal/core"
	"github.com/timetablehub/scheduler-api/internal/dto"
	"github.com/timetablehub/scheduler-api/internal/service"
	appErrors "github.com/timetablehub/scheduler-api/pkg/errors"
	"github.com/timetablehub/scheduler-api/pkg/response"
)

type timetableJobCreator interface {
	CreateJob(ctx context.Context, req dto.CreateTimetableJobRequest) (*dto.TimetableJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.TimetableJobResponse, error)
	GetResult(ctx context.Context, id string) (*dto.TimetableResultResponse, error)
	GetScheduleOutput(ctx context.Context, id string) (*core.ScheduleOutput, error)
}

// TimetableJobHandler exposes timetable job lifecycle endpoints.
type TimetableJobHandler struct {
	service  timetableJobCreator
	exporter *service.TimetableExportService
	validate *validator.Validate
}

// NewTimetableJobHandler constructs the handler.
func NewTimetableJobHandler(svc *service.TimetableJobService, exporter *service.TimetableExportService) *TimetableJobHandler {
	return &TimetableJobHandler{service: svc, exporter: exporter, validate: validator.New()}
}

// Create godoc
// @Summary Queue a timetable optimization run
// @Tags Timetable Jobs
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableJobRequest true "Timetable job payload"
// @Success 201 {object} response.Envelope
// @Router /timetable-jobs [post]
func (h *TimetableJobHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable job payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "timetable job payload failed validation"))
		return
	}

	result, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Status godoc
// @Summary Get a timetable job's lifecycle state
// @Tags Timetable Jobs
// @Produce json
// @Param id path string true "Timetable job ID"
// @Success 200 {object} response.Envelope
// @Router /timetable-jobs/{id} [get]
func (h *TimetableJobHandler) Status(c *gin.Context) {
	result, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Result godoc
// @Summary Get a finished timetable job's schedule
// @Tags Timetable Jobs
// @Produce json
// @Param id path string true "Timetable job ID"
// @Success 200 {object} response.Envelope
// @Router /timetable-jobs/{id}/result [get]
func (h *TimetableJobHandler) Result(c *gin.Context) {
	result, err := h.service.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Download a finished timetable job as CSV or PDF
// @Tags Timetable Jobs
// @Produce application/octet-stream
// @Param id path string true "Timetable job ID"
// @Param format query string false "Export format: csv or pdf (default csv)"
// @Success 200 {file} file
// @Router /timetable-jobs/{id}/export [get]
func (h *TimetableJobHandler) Export(c *gin.Context) {
	var query dto.ExportTimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if query.Format == "" {
		query.Format = dto.ExportFormatCSV
	}

	jobID := c.Param("id")
	scheduleOutput, err := h.service.GetScheduleOutput(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if query.AsLink {
		link, err := h.exporter.Persist(jobID, *scheduleOutput, string(query.Format))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist export"))
			return
		}
		response.JSON(c, http.StatusOK, dto.ExportLinkResponse{
			URL:       link.URL,
			Token:     link.Token,
			ExpiresAt: link.ExpiresAt.UTC().Format(time.RFC3339),
		}, nil)
		return
	}

	switch query.Format {
	case dto.ExportFormatCSV:
		data, err := h.exporter.RenderCSV(*scheduleOutput)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export"))
			return
		}
		c.Data(http.StatusOK, "text/csv", data)
	case dto.ExportFormatPDF:
		data, err := h.exporter.RenderPDF(*scheduleOutput, fmt.Sprintf("Timetable %s", jobID))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export"))
			return
		}
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
	}
}

// Download godoc
// @Summary Download an export via a signed link
// @Tags Timetable Jobs
// @Produce application/octet-stream
// @Param token path string true "Signed export token"
// @Success 200 {file} file
// @Router /timetable-exports/{token} [get]
func (h *TimetableJobHandler) Download(c *gin.Context) {
	file, relPath, err := h.exporter.OpenToken(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrForbidden.Code, http.StatusForbidden, "invalid or expired download link"))
		return
	}
	defer file.Close() //nolint:errcheck

	var size int64
	if info, statErr := file.Stat(); statErr == nil {
		size = info.Size()
	}

	contentType := "application/octet-stream"
	if strings.HasSuffix(relPath, ".csv") {
		contentType = "text/csv"
	} else if strings.HasSuffix(relPath, ".pdf") {
		contentType = "application/pdf"
	}
	c.DataFromReader(http.StatusOK, size, contentType, file, nil)
}
