package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-scheduler/internal/models"
)

// GenerationRepository records the outcome of each hybrid scheduler
// invocation so a section's generation history can be listed without
// re-deriving it from the (mutable, replace-in-place) assignments table.
type GenerationRepository struct {
	db *sqlx.DB
}

// NewGenerationRepository builds a GenerationRepository.
func NewGenerationRepository(db *sqlx.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Record inserts one generation outcome row.
func (r *GenerationRepository) Record(ctx context.Context, g models.Generation) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO generations (id, section_id, success, fitness, generations, hard_violations, soft_violations, entries_count, error_message, created_at)
VALUES (:id, :section_id, :success, :fitness, :generations, :hard_violations, :soft_violations, :entries_count, :error_message, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, &g); err != nil {
		return fmt.Errorf("record generation %s: %w", g.ID, err)
	}
	return nil
}

// ListForSection returns sectionID's generation history, most recent first.
func (r *GenerationRepository) ListForSection(ctx context.Context, sectionID int) ([]models.Generation, error) {
	const query = `SELECT id, section_id, success, fitness, generations, hard_violations, soft_violations, entries_count, error_message, created_at
FROM generations WHERE section_id = $1 ORDER BY created_at DESC`
	var rows []models.Generation
	if err := r.db.SelectContext(ctx, &rows, query, sectionID); err != nil {
		return nil, fmt.Errorf("list generations for section %d: %w", sectionID, err)
	}
	return rows, nil
}
