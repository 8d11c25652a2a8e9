package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/timetablehub/scheduler-api/internal/dto"
	"github.com/timetablehub/scheduler-api/internal/models"
	"github.com/timetablehub/scheduler-api/internal/service"
	appErrors "github.com/timetablehub/scheduler-api/pkg/errors"
	"github.com/timetablehub/scheduler-api/pkg/response"
)

type datasetCreator interface {
	Create(ctx context.Context, req dto.CreateDatasetRequest) (*dto.DatasetResponse, error)
	Get(ctx context.Context, id string) (*models.Dataset, error)
}

// DatasetHandler exposes dataset upload and lookup endpoints.
type DatasetHandler struct {
	service  datasetCreator
	validate *validator.Validate
}

// NewDatasetHandler constructs the handler.
func NewDatasetHandler(svc *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: svc, validate: validator.New()}
}

// Create godoc
// @Summary Upload a curriculum dataset
// @Tags Datasets
// @Accept json
// @Produce json
// @Param payload body dto.CreateDatasetRequest true "Dataset payload"
// @Success 201 {object} response.Envelope
// @Router /datasets [post]
func (h *DatasetHandler) Create(c *gin.Context) {
	var req dto.CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dataset payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "dataset payload failed validation"))
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Fetch a dataset by id
// @Tags Datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} response.Envelope
// @Router /datasets/{id} [get]
func (h *DatasetHandler) Get(c *gin.Context) {
	ds, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ds, nil)
}
