package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/models"
)

// AssignmentRepository is the scheduler's persistence boundary: it reads
// other sections' committed placements for faculty/room conflict checking
// (scheduler.CrossSectionAssignments) and commits a section's generated
// schedule transactionally (scheduler.AssignmentSink).
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository builds an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// AssignmentsForFaculty returns every slot facultyID already occupies in a
// section other than excludeSection.
func (r *AssignmentRepository) AssignmentsForFaculty(ctx context.Context, facultyID domain.FacultyID, excludeSection domain.SectionID) ([]domain.Assignment, error) {
	const query = `SELECT a.id, a.section_id, a.obligation_id, a.time_slot_id, a.room_id, a.generation_id, a.created_at
FROM assignments a
JOIN teaching_obligations o ON o.id = a.obligation_id
WHERE o.faculty_id = $1 AND a.section_id != $2`
	var rows []models.Assignment
	if err := r.db.SelectContext(ctx, &rows, query, int(facultyID), int(excludeSection)); err != nil {
		return nil, fmt.Errorf("list assignments for faculty %d: %w", facultyID, err)
	}
	return toDomainAssignments(rows), nil
}

// AssignmentsForRoom returns every slot roomID is already booked for in a
// section other than excludeSection.
func (r *AssignmentRepository) AssignmentsForRoom(ctx context.Context, roomID domain.RoomID, excludeSection domain.SectionID) ([]domain.Assignment, error) {
	const query = `SELECT id, section_id, obligation_id, time_slot_id, room_id, generation_id, created_at
FROM assignments WHERE room_id = $1 AND section_id != $2`
	var rows []models.Assignment
	if err := r.db.SelectContext(ctx, &rows, query, int(roomID), int(excludeSection)); err != nil {
		return nil, fmt.Errorf("list assignments for room %d: %w", roomID, err)
	}
	return toDomainAssignments(rows), nil
}

// ForSection returns sectionID's current committed schedule, ordered by
// time slot, for read endpoints.
func (r *AssignmentRepository) ForSection(ctx context.Context, sectionID domain.SectionID) ([]domain.Assignment, error) {
	const query = `SELECT a.id, a.section_id, a.obligation_id, a.time_slot_id, a.room_id, a.generation_id, a.created_at
FROM assignments a
JOIN time_slots t ON t.id = a.time_slot_id
WHERE a.section_id = $1
ORDER BY t.day_index ASC, t.period ASC`
	var rows []models.Assignment
	if err := r.db.SelectContext(ctx, &rows, query, int(sectionID)); err != nil {
		return nil, fmt.Errorf("list assignments for section %d: %w", sectionID, err)
	}
	return toDomainAssignments(rows), nil
}

// ForFaculty returns every assignment currently committed to facultyID
// across all sections, for the per-faculty schedule view.
func (r *AssignmentRepository) ForFaculty(ctx context.Context, facultyID domain.FacultyID) ([]domain.Assignment, error) {
	const query = `SELECT a.id, a.section_id, a.obligation_id, a.time_slot_id, a.room_id, a.generation_id, a.created_at
FROM assignments a
JOIN teaching_obligations o ON o.id = a.obligation_id
JOIN time_slots t ON t.id = a.time_slot_id
WHERE o.faculty_id = $1
ORDER BY t.day_index ASC, t.period ASC`
	var rows []models.Assignment
	if err := r.db.SelectContext(ctx, &rows, query, int(facultyID)); err != nil {
		return nil, fmt.Errorf("list assignments for faculty %d: %w", facultyID, err)
	}
	return toDomainAssignments(rows), nil
}

// ScheduleForSection returns sectionID's current committed schedule joined
// with human-readable catalog codes, for the section schedule read view.
func (r *AssignmentRepository) ScheduleForSection(ctx context.Context, sectionID domain.SectionID) ([]models.ScheduleEntryRow, error) {
	const query = `SELECT
  a.section_id, s.code AS section_code,
  a.obligation_id, c.code AS course_code, f.code AS faculty_code, rm.code AS room_code,
  t.code AS time_slot_code, o.session_type, COALESCE(b.code, '') AS batch_code, a.generation_id
FROM assignments a
JOIN teaching_obligations o ON o.id = a.obligation_id
JOIN courses c ON c.id = o.course_id
JOIN faculty f ON f.id = o.faculty_id
JOIN sections s ON s.id = a.section_id
JOIN rooms rm ON rm.id = a.room_id
JOIN time_slots t ON t.id = a.time_slot_id
LEFT JOIN batches b ON b.id = o.batch_id
WHERE a.section_id = $1
ORDER BY t.day_index ASC, t.period ASC`
	var rows []models.ScheduleEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, int(sectionID)); err != nil {
		return nil, fmt.Errorf("schedule view for section %d: %w", sectionID, err)
	}
	return rows, nil
}

// ScheduleForFaculty returns every assignment committed to facultyID
// across all sections joined with human-readable catalog codes, for the
// per-faculty schedule read view.
func (r *AssignmentRepository) ScheduleForFaculty(ctx context.Context, facultyID domain.FacultyID) ([]models.ScheduleEntryRow, error) {
	const query = `SELECT
  a.section_id, s.code AS section_code,
  a.obligation_id, c.code AS course_code, f.code AS faculty_code, rm.code AS room_code,
  t.code AS time_slot_code, o.session_type, COALESCE(b.code, '') AS batch_code, a.generation_id
FROM assignments a
JOIN teaching_obligations o ON o.id = a.obligation_id
JOIN courses c ON c.id = o.course_id
JOIN faculty f ON f.id = o.faculty_id
JOIN sections s ON s.id = a.section_id
JOIN rooms rm ON rm.id = a.room_id
JOIN time_slots t ON t.id = a.time_slot_id
LEFT JOIN batches b ON b.id = o.batch_id
WHERE f.id = $1
ORDER BY t.day_index ASC, t.period ASC`
	var rows []models.ScheduleEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, int(facultyID)); err != nil {
		return nil, fmt.Errorf("schedule view for faculty %d: %w", facultyID, err)
	}
	return rows, nil
}

// ReplaceForSection atomically discards sectionID's previous schedule and
// commits assignments under generationID, so a reader never observes a
// partially-replaced schedule.
func (r *AssignmentRepository) ReplaceForSection(ctx context.Context, sectionID domain.SectionID, assignments []domain.Assignment, generationID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments for section %d: %w", sectionID, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM assignments WHERE section_id = $1`, int(sectionID)); err != nil {
		return fmt.Errorf("delete existing assignments for section %d: %w", sectionID, err)
	}

	if err = r.bulkInsertWithTx(ctx, tx, sectionID, assignments, generationID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignments for section %d: %w", sectionID, err)
	}
	return nil
}

func (r *AssignmentRepository) bulkInsertWithTx(ctx context.Context, tx *sqlx.Tx, sectionID domain.SectionID, assignments []domain.Assignment, generationID uuid.UUID) error {
	if len(assignments) == 0 {
		return nil
	}
	now := time.Now().UTC()

	const query = `INSERT INTO assignments (section_id, obligation_id, time_slot_id, room_id, generation_id, created_at)
VALUES (:section_id, :obligation_id, :time_slot_id, :room_id, :generation_id, :created_at)`

	for _, a := range assignments {
		row := models.Assignment{
			SectionID:    int(sectionID),
			ObligationID: int(a.Obligation),
			TimeSlotID:   int(a.Slot),
			RoomID:       int(a.Room),
			GenerationID: generationID.String(),
			CreatedAt:    now,
		}
		if _, err := sqlx.NamedExecContext(ctx, tx, query, &row); err != nil {
			return fmt.Errorf("insert assignment for obligation %d: %w", a.Obligation, err)
		}
	}
	return nil
}

func toDomainAssignments(rows []models.Assignment) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Assignment{
			Obligation: domain.ObligationID(row.ObligationID),
			Slot:       domain.TimeSlotID(row.TimeSlotID),
			Room:       domain.RoomID(row.RoomID),
		})
	}
	return out
}
