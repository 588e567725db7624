package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/dto"
	internalmiddleware "github.com/noah-isme/timetable-scheduler/internal/middleware"
	"github.com/noah-isme/timetable-scheduler/internal/models"
	"github.com/noah-isme/timetable-scheduler/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-scheduler/pkg/errors"
	"github.com/noah-isme/timetable-scheduler/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, sectionID domain.SectionID, req dto.GenerateRequest) (<-chan scheduler.Progress, error)
	RecordOutcome(ctx context.Context, sectionID domain.SectionID, terminal scheduler.Progress, duration time.Duration)
	History(ctx context.Context, sectionID domain.SectionID) ([]dto.GenerationSummary, error)
	SectionSchedule(ctx context.Context, sectionID domain.SectionID) ([]models.ScheduleEntryRow, error)
	FacultySchedule(ctx context.Context, facultyID domain.FacultyID) ([]models.ScheduleEntryRow, error)
}

// ScheduleHandler exposes the hybrid scheduler over HTTP: triggering a
// generation run, reading committed schedules and generation history.
type ScheduleHandler struct {
	service scheduleGenerator
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc scheduleGenerator) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Generate godoc
// @Summary Generate a section's timetable
// @Description Runs the hybrid CSP/GA scheduler for the section and streams newline-delimited progress events
// @Tags Scheduler
// @Accept json
// @Produce application/x-ndjson
// @Param id path int true "Section ID"
// @Param payload body dto.GenerateRequest false "Generator configuration"
// @Success 200 {string} string "application/x-ndjson stream of Progress events"
// @Router /sections/{id}/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	sectionID, err := parseSectionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
			return
		}
	}

	events, err := h.service.Generate(c.Request.Context(), sectionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	started := time.Now()
	encoder := json.NewEncoder(c.Writer)
	flusher, canFlush := c.Writer.(http.Flusher)

	for event := range events {
		if err := encoder.Encode(event); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
		if event.Kind == scheduler.EventComplete || event.Kind == scheduler.EventError {
			h.service.RecordOutcome(c.Request.Context(), sectionID, event, time.Since(started))
		}
	}
}

// SectionSchedule godoc
// @Summary Get a section's committed schedule
// @Tags Scheduler
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/schedule [get]
func (h *ScheduleHandler) SectionSchedule(c *gin.Context) {
	sectionID, err := parseSectionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.SectionSchedule(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, internalmiddleware.ExtractMeta(c))
}

// SectionHistory godoc
// @Summary List a section's generation history
// @Tags Scheduler
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/generations [get]
func (h *ScheduleHandler) SectionHistory(c *gin.Context) {
	sectionID, err := parseSectionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.service.History(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil, internalmiddleware.ExtractMeta(c))
}

// FacultySchedule godoc
// @Summary Get a faculty member's committed schedule across all sections
// @Tags Scheduler
// @Produce json
// @Param id path int true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id}/schedule [get]
func (h *ScheduleHandler) FacultySchedule(c *gin.Context) {
	raw, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid faculty id"))
		return
	}
	rows, err := h.service.FacultySchedule(c.Request.Context(), domain.FacultyID(raw))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, internalmiddleware.ExtractMeta(c))
}

func parseSectionID(c *gin.Context) (domain.SectionID, error) {
	raw, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid section id")
	}
	return domain.SectionID(raw), nil
}
