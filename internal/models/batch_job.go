package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BatchJobStatus captures the lifecycle of an asynchronous multi-section
// scheduling run.
type BatchJobStatus string

const (
	BatchJobQueued     BatchJobStatus = "QUEUED"
	BatchJobProcessing BatchJobStatus = "PROCESSING"
	BatchJobFinished   BatchJobStatus = "FINISHED"
	BatchJobFailed     BatchJobStatus = "FAILED"
)

// SectionOutcome is one section's result within a batch run.
type SectionOutcome struct {
	SectionID      int    `json:"section_id"`
	Success        bool   `json:"success"`
	Fitness        int    `json:"fitness"`
	HardViolations int    `json:"hard_violations"`
	GenerationID   string `json:"generation_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

// SectionOutcomes is the JSONB-backed list of per-section results
// accumulated as a batch job's sections complete one by one.
type SectionOutcomes []SectionOutcome

// Value marshals the outcome list to JSON for persistence.
func (o SectionOutcomes) Value() (driver.Value, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshal section outcomes: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the outcome list.
func (o *SectionOutcomes) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for SectionOutcomes", value)
	}
	if len(data) == 0 {
		*o = nil
		return nil
	}
	return json.Unmarshal(data, o)
}

// BatchGenerationJob is the persisted row for one multi-section scheduling
// request submitted through the async batch endpoint: a single queued job
// fans out one hybrid scheduler run per section and accumulates results as
// they complete, rather than blocking the request on every section in turn.
type BatchGenerationJob struct {
	ID         string          `db:"id" json:"id"`
	SectionIDs JSONIntSlice    `db:"section_ids" json:"section_ids"`
	Status     BatchJobStatus  `db:"status" json:"status"`
	Progress   int             `db:"progress" json:"progress"`
	Results    SectionOutcomes `db:"results" json:"results"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	FinishedAt *time.Time      `db:"finished_at" json:"finished_at,omitempty"`
}

// BatchJobUpdate names the mutable fields of a batch job row; a nil field
// is left untouched by an update.
type BatchJobUpdate struct {
	Status     *BatchJobStatus
	Progress   *int
	Results    *SectionOutcomes
	FinishedAt *time.Time
}

// JSONIntSlice is a JSONB-backed []int, used for the batch job's target
// section list.
type JSONIntSlice []int

// Value marshals the slice to JSON for persistence.
func (s JSONIntSlice) Value() (driver.Value, error) {
	data, err := json.Marshal([]int(s))
	if err != nil {
		return nil, fmt.Errorf("marshal section id list: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the slice.
func (s *JSONIntSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONIntSlice", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}
