package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/models"
)

// ObligationRepository loads the teaching obligations a section must have
// placed into its schedule, satisfying scheduler.ObligationProvider.
type ObligationRepository struct {
	db *sqlx.DB
}

// NewObligationRepository builds an ObligationRepository.
func NewObligationRepository(db *sqlx.DB) *ObligationRepository {
	return &ObligationRepository{db: db}
}

// ObligationsForSection returns every obligation owed to sectionID.
func (r *ObligationRepository) ObligationsForSection(ctx context.Context, sectionID domain.SectionID) ([]domain.TeachingObligation, error) {
	const query = `SELECT id, course_id, faculty_id, section_id, batch_id, session_type, sessions_per_week, created_at
FROM teaching_obligations WHERE section_id = $1 ORDER BY id ASC`
	var rows []models.TeachingObligation
	if err := r.db.SelectContext(ctx, &rows, query, int(sectionID)); err != nil {
		return nil, fmt.Errorf("list obligations for section %d: %w", sectionID, err)
	}
	out := make([]domain.TeachingObligation, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TeachingObligation{
			ID:              domain.ObligationID(row.ID),
			Course:          domain.CourseID(row.CourseID),
			Faculty:         domain.FacultyID(row.FacultyID),
			Section:         domain.SectionID(row.SectionID),
			Batch:           domain.BatchID(row.BatchID),
			Type:            domain.SessionType(row.SessionType),
			SessionsPerWeek: row.SessionsPerWeek,
		})
	}
	return out, nil
}
