package models

import "time"

// Course is the persisted row backing domain.Course.
type Course struct {
	ID             int       `db:"id"`
	Code           string    `db:"code"`
	Semester       int       `db:"semester"`
	CreditWeight   float64   `db:"credit_weight"`
	Category       string    `db:"category"`
	LectureHours   int       `db:"lecture_hours"`
	TutorialHours  int       `db:"tutorial_hours"`
	PracticalHours int       `db:"practical_hours"`
	IsElective     bool      `db:"is_elective"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Faculty is the persisted row backing domain.Faculty. Preferred and
// Unavailable slot sets live in their own join tables
// (faculty_preferred_slots, faculty_unavailable_slots) rather than inline
// columns, so they round-trip through separate queries.
type Faculty struct {
	ID              int       `db:"id"`
	Code            string    `db:"code"`
	MaxHoursPerDay  int       `db:"max_hours_per_day"`
	MaxHoursPerWeek int       `db:"max_hours_per_week"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// FacultySlotPreference rows back a faculty's preferred-slot set.
type FacultySlotPreference struct {
	FacultyID  int `db:"faculty_id"`
	TimeSlotID int `db:"time_slot_id"`
}

// FacultySlotUnavailability rows back a faculty's unavailable-slot set.
type FacultySlotUnavailability struct {
	FacultyID  int `db:"faculty_id"`
	TimeSlotID int `db:"time_slot_id"`
}

// Room is the persisted row backing domain.Room.
type Room struct {
	ID        int       `db:"id"`
	Code      string    `db:"code"`
	Capacity  int       `db:"capacity"`
	IsLab     bool      `db:"is_lab"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Section is the persisted row backing domain.Section.
type Section struct {
	ID        int       `db:"id"`
	Code      string    `db:"code"`
	Semester  int       `db:"semester"`
	Strength  int       `db:"strength"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Batch is the persisted row backing domain.Batch, always scoped to a
// parent section.
type Batch struct {
	ID        int       `db:"id"`
	SectionID int       `db:"section_id"`
	Code      string    `db:"code"`
	Strength  int       `db:"strength"`
	CreatedAt time.Time `db:"created_at"`
}

// TimeSlot is the persisted row backing domain.TimeSlot. Code carries the
// "DDD-P" textual form used at the HTTP and reporting boundary.
type TimeSlot struct {
	ID       int    `db:"id"`
	DayIndex int    `db:"day_index"`
	Period   int    `db:"period"`
	Code     string `db:"code"`
}
