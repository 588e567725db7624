package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-scheduler/internal/models"
)

// BatchJobRepository persists the lifecycle of an asynchronous
// multi-section scheduling run.
type BatchJobRepository struct {
	db *sqlx.DB
}

// NewBatchJobRepository builds a BatchJobRepository.
func NewBatchJobRepository(db *sqlx.DB) *BatchJobRepository {
	return &BatchJobRepository{db: db}
}

// Create inserts a new queued batch job row.
func (r *BatchJobRepository) Create(ctx context.Context, job *models.BatchGenerationJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.BatchJobQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO batch_generation_jobs (id, section_ids, status, progress, results, created_at, finished_at)
VALUES (:id, :section_ids, :status, :progress, :results, :created_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create batch generation job: %w", err)
	}
	return nil
}

// GetByID returns a batch job row by its identifier.
func (r *BatchJobRepository) GetByID(ctx context.Context, id string) (*models.BatchGenerationJob, error) {
	const query = `SELECT id, section_ids, status, progress, results, created_at, finished_at
FROM batch_generation_jobs WHERE id = $1`
	var job models.BatchGenerationJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, fmt.Errorf("get batch generation job %s: %w", id, err)
	}
	return &job, nil
}

// Update persists the provided changes for a batch job row.
func (r *BatchJobRepository) Update(ctx context.Context, id string, params models.BatchJobUpdate) error {
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argPos := 1

	if params.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.Progress != nil {
		set = append(set, fmt.Sprintf("progress = $%d", argPos))
		args = append(args, *params.Progress)
		argPos++
	}
	if params.Results != nil {
		set = append(set, fmt.Sprintf("results = $%d", argPos))
		args = append(args, *params.Results)
		argPos++
	}
	if params.FinishedAt != nil {
		set = append(set, fmt.Sprintf("finished_at = $%d", argPos))
		args = append(args, *params.FinishedAt)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE batch_generation_jobs SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update batch generation job %s: %w", id, err)
	}
	return nil
}
