package scheduler

import (
	"context"

	"github.com/google/uuid"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// CatalogProvider exposes the read-only catalog entities a scheduling run
// needs.
type CatalogProvider interface {
	CoursesForSemester(ctx context.Context, semester int) ([]domain.Course, error)
	FacultyAll(ctx context.Context) ([]domain.Faculty, error)
	RoomsAll(ctx context.Context) ([]domain.Room, error)
	TimeSlotsAll(ctx context.Context) ([]domain.TimeSlot, error)
	Section(ctx context.Context, id domain.SectionID) (domain.Section, error)
}

// ObligationProvider exposes the teaching obligations for one section.
type ObligationProvider interface {
	ObligationsForSection(ctx context.Context, sectionID domain.SectionID) ([]domain.TeachingObligation, error)
}

// CrossSectionAssignments exposes other sections' committed placements,
// used by the evaluator for H1/H2 on faculty and rooms shared across
// sections.
type CrossSectionAssignments interface {
	AssignmentsForFaculty(ctx context.Context, facultyID domain.FacultyID, excludeSection domain.SectionID) ([]domain.Assignment, error)
	AssignmentsForRoom(ctx context.Context, roomID domain.RoomID, excludeSection domain.SectionID) ([]domain.Assignment, error)
}

// AssignmentSink commits a section's schedule transactionally.
type AssignmentSink interface {
	ReplaceForSection(ctx context.Context, sectionID domain.SectionID, assignments []domain.Assignment, generationID uuid.UUID) error
}
