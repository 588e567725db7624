package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-scheduler/internal/dto"
	appErrors "github.com/noah-isme/timetable-scheduler/pkg/errors"
	"github.com/noah-isme/timetable-scheduler/pkg/response"
)

type batchScheduleService interface {
	CreateBatch(ctx context.Context, req dto.BatchGenerateRequest) (*dto.BatchJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.BatchStatusResponse, error)
}

// BatchScheduleHandler exposes the asynchronous multi-section generation
// endpoints, mirroring the queued-job request/status pair used by the
// report generation endpoints.
type BatchScheduleHandler struct {
	batch batchScheduleService
}

// NewBatchScheduleHandler constructs a BatchScheduleHandler.
func NewBatchScheduleHandler(batch batchScheduleService) *BatchScheduleHandler {
	return &BatchScheduleHandler{batch: batch}
}

// CreateBatch godoc
// @Summary Queue a multi-section schedule generation run
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.BatchGenerateRequest true "Sections and shared generator config"
// @Success 202 {object} response.Envelope
// @Router /sections/batch-generate [post]
func (h *BatchScheduleHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch generate payload"))
		return
	}
	job, err := h.batch.CreateBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// BatchStatus godoc
// @Summary Get a batch generation run's progress and results
// @Tags Scheduler
// @Produce json
// @Param id path string true "Batch job ID"
// @Success 200 {object} response.Envelope
// @Router /sections/batch-generate/{id} [get]
func (h *BatchScheduleHandler) BatchStatus(c *gin.Context) {
	status, err := h.batch.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
