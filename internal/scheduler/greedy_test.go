package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

func TestGreedyScheduleOrdersLabsFirstAndAvoidsConflicts(t *testing.T) {
	slots := []domain.TimeSlot{
		{ID: 1, DayIndex: 0, Period: 1},
		{ID: 2, DayIndex: 0, Period: 2},
		{ID: 3, DayIndex: 0, Period: 3},
		{ID: 4, DayIndex: 1, Period: 1},
	}
	faculties := []domain.Faculty{{ID: 1, Code: "F1"}}
	rooms := []domain.Room{
		{ID: 1, Code: "R1", Capacity: 40},
		{ID: 2, Code: "LAB1", Capacity: 40, IsLab: true},
	}
	section := domain.Section{ID: 1, Code: "S1", Semester: 1, Strength: 30, Batches: []domain.Batch{{ID: 1, Code: "G1", Strength: 15}}}
	lecture := domain.TeachingObligation{ID: 1, Course: 1, Faculty: 1, Section: 1, Type: domain.SessionLecture, SessionsPerWeek: 1}
	lab := domain.TeachingObligation{ID: 2, Course: 2, Faculty: 1, Section: 1, Batch: 1, Type: domain.SessionPractical, SessionsPerWeek: 1}

	sc := domain.NewScheduleContext(1, nil, faculties, rooms, []domain.Section{section}, slots,
		[]domain.TeachingObligation{lecture, lab}, domain.ExternalOccupancy{})

	assignments := greedySchedule(sc, []domain.TeachingObligation{lecture, lab})

	require.Len(t, assignments, 3) // 1 lecture period + 2 lab periods
	seen := map[domain.TimeSlotID]bool{}
	for _, a := range assignments {
		assert.False(t, seen[a.Slot], "slot %d double-booked by greedy placement", a.Slot)
		seen[a.Slot] = true
	}
}

func TestGreedyScheduleRespectsExternalOccupancy(t *testing.T) {
	slots := []domain.TimeSlot{{ID: 1, DayIndex: 0, Period: 1}, {ID: 2, DayIndex: 0, Period: 2}}
	faculties := []domain.Faculty{{ID: 1, Code: "F1"}}
	rooms := []domain.Room{{ID: 1, Code: "R1", Capacity: 40}}
	section := domain.Section{ID: 1, Code: "S1", Semester: 1, Strength: 30}
	ob := domain.TeachingObligation{ID: 1, Course: 1, Faculty: 1, Section: 1, Type: domain.SessionLecture, SessionsPerWeek: 1}

	external := domain.ExternalOccupancy{
		FacultySlots: map[domain.FacultyID]map[domain.TimeSlotID]bool{1: {1: true}},
	}
	sc := domain.NewScheduleContext(1, nil, faculties, rooms, []domain.Section{section}, slots,
		[]domain.TeachingObligation{ob}, external)

	assignments := greedySchedule(sc, []domain.TeachingObligation{ob})

	require.Len(t, assignments, 1)
	assert.EqualValues(t, 2, assignments[0].Slot)
}

func TestWeeklyPeriodsDoublesForLabs(t *testing.T) {
	lecture := domain.TeachingObligation{Type: domain.SessionLecture, SessionsPerWeek: 3}
	lab := domain.TeachingObligation{Type: domain.SessionPractical, SessionsPerWeek: 2}

	assert.Equal(t, 3, weeklyPeriods(lecture))
	assert.Equal(t, 4, weeklyPeriods(lab))
}
