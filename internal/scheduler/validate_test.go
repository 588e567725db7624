package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

func TestValidatePrerequisitesReportsMissingObligations(t *testing.T) {
	sc := domain.NewScheduleContext(1, nil, nil, []domain.Room{{ID: 1}}, []domain.Section{{ID: 1, Semester: 1}},
		[]domain.TimeSlot{{ID: 1}}, nil, domain.ExternalOccupancy{})

	gaps := validatePrerequisites(sc, nil)

	assert.Contains(t, gaps, "no teaching obligations registered for this section")
}

func TestValidatePrerequisitesReportsMissingLabRoom(t *testing.T) {
	obligations := []domain.TeachingObligation{{ID: 1, Type: domain.SessionPractical, SessionsPerWeek: 1}}
	sc := domain.NewScheduleContext(1, nil, nil, []domain.Room{{ID: 1, IsLab: false}}, []domain.Section{{ID: 1, Semester: 1}},
		[]domain.TimeSlot{{ID: 1}}, obligations, domain.ExternalOccupancy{})

	gaps := validatePrerequisites(sc, obligations)

	assert.Contains(t, gaps, "lab obligations present but no laboratory room available")
}

func TestValidatePrerequisitesReportsUncoveredCourse(t *testing.T) {
	courses := []domain.Course{{ID: 1, Code: "CS101", Semester: 1, IsElective: false}}
	obligations := []domain.TeachingObligation{{ID: 1, Course: 2, Type: domain.SessionLecture, SessionsPerWeek: 1}}
	sc := domain.NewScheduleContext(1, courses, nil, []domain.Room{{ID: 1}}, []domain.Section{{ID: 1, Semester: 1}},
		[]domain.TimeSlot{{ID: 1}}, obligations, domain.ExternalOccupancy{})

	gaps := validatePrerequisites(sc, obligations)

	assert.Contains(t, gaps, "course CS101 (semester 1) has no teaching obligation")
}

func TestValidatePrerequisitesIgnoresElectiveCourses(t *testing.T) {
	courses := []domain.Course{{ID: 1, Code: "EL100", Semester: 1, IsElective: true}}
	obligations := []domain.TeachingObligation{{ID: 1, Course: 2, Type: domain.SessionLecture, SessionsPerWeek: 1}}
	sc := domain.NewScheduleContext(1, courses, nil, []domain.Room{{ID: 1}}, []domain.Section{{ID: 1, Semester: 1}},
		[]domain.TimeSlot{{ID: 1}}, obligations, domain.ExternalOccupancy{})

	gaps := validatePrerequisites(sc, obligations)

	assert.NotContains(t, gaps, "course EL100 (semester 1) has no teaching obligation")
}

func TestValidatePrerequisitesPassesCleanSection(t *testing.T) {
	courses := []domain.Course{{ID: 1, Code: "CS101", Semester: 1}}
	obligations := []domain.TeachingObligation{{ID: 1, Course: 1, Type: domain.SessionLecture, SessionsPerWeek: 1}}
	sc := domain.NewScheduleContext(1, courses, nil, []domain.Room{{ID: 1}}, []domain.Section{{ID: 1, Semester: 1}},
		[]domain.TimeSlot{{ID: 1}}, obligations, domain.ExternalOccupancy{})

	gaps := validatePrerequisites(sc, obligations)

	assert.Empty(t, gaps)
}
