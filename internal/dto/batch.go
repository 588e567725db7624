package dto

import "github.com/noah-isme/timetable-scheduler/internal/models"

// BatchGenerateRequest captures POST /sections/batch-generate: a set of
// sections to schedule, all sharing the same generator configuration.
type BatchGenerateRequest struct {
	SectionIDs []int           `json:"section_ids" validate:"required,min=1,dive,min=1"`
	Config     GenerateRequest `json:"config"`
}

// BatchJobResponse is returned immediately after enqueueing a batch run.
type BatchJobResponse struct {
	ID       string                `json:"id"`
	Status   models.BatchJobStatus `json:"status"`
	Progress int                   `json:"progress"`
}

// BatchStatusResponse exposes a batch run's progress and the per-section
// results accumulated so far.
type BatchStatusResponse struct {
	ID         string                  `json:"id"`
	Status     models.BatchJobStatus   `json:"status"`
	Progress   int                     `json:"progress"`
	SectionIDs []int                   `json:"section_ids"`
	Results    []models.SectionOutcome `json:"results"`
}
