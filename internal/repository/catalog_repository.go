package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/models"
)

// CatalogRepository provides read access to the courses, faculty, rooms,
// sections and time slots the hybrid scheduler treats as its arena, and
// satisfies scheduler.CatalogProvider.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository builds a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CoursesForSemester returns every course offered in semester.
func (r *CatalogRepository) CoursesForSemester(ctx context.Context, semester int) ([]domain.Course, error) {
	const query = `SELECT id, code, semester, credit_weight, category, lecture_hours, tutorial_hours, practical_hours, is_elective, created_at, updated_at
FROM courses WHERE semester = $1 ORDER BY code ASC`
	var rows []models.Course
	if err := r.db.SelectContext(ctx, &rows, query, semester); err != nil {
		return nil, fmt.Errorf("list courses for semester %d: %w", semester, err)
	}
	out := make([]domain.Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Course{
			ID:             domain.CourseID(row.ID),
			Code:           row.Code,
			Semester:       row.Semester,
			CreditWeight:   row.CreditWeight,
			Category:       row.Category,
			LectureHours:   row.LectureHours,
			TutorialHours:  row.TutorialHours,
			PracticalHours: row.PracticalHours,
			IsElective:     row.IsElective,
		})
	}
	return out, nil
}

// FacultyAll returns every faculty member along with their preferred and
// unavailable slot sets, each loaded from its own join table.
func (r *CatalogRepository) FacultyAll(ctx context.Context) ([]domain.Faculty, error) {
	const query = `SELECT id, code, max_hours_per_day, max_hours_per_week, created_at, updated_at FROM faculty ORDER BY code ASC`
	var rows []models.Faculty
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}

	preferred, err := r.facultySlotSet(ctx, "faculty_preferred_slots")
	if err != nil {
		return nil, err
	}
	unavailable, err := r.facultySlotSet(ctx, "faculty_unavailable_slots")
	if err != nil {
		return nil, err
	}

	out := make([]domain.Faculty, 0, len(rows))
	for _, row := range rows {
		id := domain.FacultyID(row.ID)
		out = append(out, domain.Faculty{
			ID:              id,
			Code:            row.Code,
			MaxHoursPerDay:  row.MaxHoursPerDay,
			MaxHoursPerWeek: row.MaxHoursPerWeek,
			Preferred:       preferred[id],
			Unavailable:     unavailable[id],
		})
	}
	return out, nil
}

func (r *CatalogRepository) facultySlotSet(ctx context.Context, table string) (map[domain.FacultyID]map[domain.TimeSlotID]bool, error) {
	query := fmt.Sprintf(`SELECT faculty_id, time_slot_id FROM %s`, table)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[domain.FacultyID]map[domain.TimeSlotID]bool)
	for rows.Next() {
		var facultyID, timeSlotID int
		if err := rows.Scan(&facultyID, &timeSlotID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		id := domain.FacultyID(facultyID)
		if out[id] == nil {
			out[id] = make(map[domain.TimeSlotID]bool)
		}
		out[id][domain.TimeSlotID(timeSlotID)] = true
	}
	return out, rows.Err()
}

// RoomsAll returns every bookable room.
func (r *CatalogRepository) RoomsAll(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT id, code, capacity, is_lab, created_at, updated_at FROM rooms ORDER BY code ASC`
	var rows []models.Room
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	out := make([]domain.Room, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Room{ID: domain.RoomID(row.ID), Code: row.Code, Capacity: row.Capacity, IsLab: row.IsLab})
	}
	return out, nil
}

// TimeSlotsAll returns every teaching period in canonical order.
func (r *CatalogRepository) TimeSlotsAll(ctx context.Context) ([]domain.TimeSlot, error) {
	const query = `SELECT id, day_index, period, code FROM time_slots ORDER BY day_index ASC, period ASC`
	var rows []models.TimeSlot
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	out := make([]domain.TimeSlot, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TimeSlot{ID: domain.TimeSlotID(row.ID), DayIndex: row.DayIndex, Period: row.Period})
	}
	return out, nil
}

// Section returns one section with its batches.
func (r *CatalogRepository) Section(ctx context.Context, id domain.SectionID) (domain.Section, error) {
	const query = `SELECT id, code, semester, strength, created_at, updated_at FROM sections WHERE id = $1`
	var row models.Section
	if err := r.db.GetContext(ctx, &row, query, int(id)); err != nil {
		return domain.Section{}, fmt.Errorf("get section %d: %w", id, err)
	}

	const batchQuery = `SELECT id, section_id, code, strength, created_at FROM batches WHERE section_id = $1 ORDER BY code ASC`
	var batchRows []models.Batch
	if err := r.db.SelectContext(ctx, &batchRows, batchQuery, int(id)); err != nil {
		return domain.Section{}, fmt.Errorf("list batches for section %d: %w", id, err)
	}
	batches := make([]domain.Batch, 0, len(batchRows))
	for _, b := range batchRows {
		batches = append(batches, domain.Batch{ID: domain.BatchID(b.ID), Code: b.Code, Strength: b.Strength})
	}

	return domain.Section{
		ID:       domain.SectionID(row.ID),
		Code:     row.Code,
		Semester: row.Semester,
		Strength: row.Strength,
		Batches:  batches,
	}, nil
}
