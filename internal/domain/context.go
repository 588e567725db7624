package domain

import "sort"

// ScheduleContext is the immutable arena for one scheduling run: every
// catalog entity the CSP solver and optimizer touch, addressed by the small
// integer IDs declared in ids.go, plus the reverse indexes built once at
// construction time so lookups during backtracking never walk a slice.
//
// A ScheduleContext is built once per run and never mutated afterwards:
// the CSP solver, optimizer and constraint evaluator all take a
// *ScheduleContext and thread their own working state (assignments,
// occupancy sets) alongside it instead of writing into the arena.
type ScheduleContext struct {
	Courses   map[CourseID]Course
	Faculties map[FacultyID]Faculty
	Rooms     map[RoomID]Room
	Sections  map[SectionID]Section

	Slots     map[TimeSlotID]TimeSlot
	SlotOrder []TimeSlotID // Slots in canonical (day, period) order

	Obligations map[ObligationID]TeachingObligation

	// TargetSection is the section this run is scheduling. H3/S4 apply
	// only to it; H1/H2 apply globally, folding in External below.
	TargetSection SectionID

	// External holds slots already occupied by faculty and rooms in
	// other sections' committed assignments, the cross-section resource
	// view the evaluator needs for H1/H2, since both are shared.
	External ExternalOccupancy

	obligationsBySection map[SectionID][]ObligationID
	obligationsByFaculty map[FacultyID][]ObligationID
	roomsByType          map[bool][]RoomID // keyed by Room.IsLab
	nextSlotSameDay      map[TimeSlotID]TimeSlotID
}

// ExternalOccupancy is the set of (faculty, slot) and (room, slot) pairs
// already committed by other sections' schedules, fetched once via
// CrossSectionAssignments when a ScheduleContext is built.
type ExternalOccupancy struct {
	FacultySlots map[FacultyID]map[TimeSlotID]bool
	RoomSlots    map[RoomID]map[TimeSlotID]bool
}

// IsFacultyBusy reports whether faculty is already occupied at slot by an
// assignment outside the section being scheduled.
func (e ExternalOccupancy) IsFacultyBusy(faculty FacultyID, slot TimeSlotID) bool {
	return e.FacultySlots[faculty][slot]
}

// IsRoomBusy reports whether room is already occupied at slot by an
// assignment outside the section being scheduled.
func (e ExternalOccupancy) IsRoomBusy(room RoomID, slot TimeSlotID) bool {
	return e.RoomSlots[room][slot]
}

// NewScheduleContext builds the arena and its reverse indexes from flat
// catalog slices, as read from the repository layer.
func NewScheduleContext(
	targetSection SectionID,
	courses []Course,
	faculties []Faculty,
	rooms []Room,
	sections []Section,
	slots []TimeSlot,
	obligations []TeachingObligation,
	external ExternalOccupancy,
) *ScheduleContext {
	ctx := &ScheduleContext{
		Courses:       make(map[CourseID]Course, len(courses)),
		Faculties:     make(map[FacultyID]Faculty, len(faculties)),
		Rooms:         make(map[RoomID]Room, len(rooms)),
		Sections:      make(map[SectionID]Section, len(sections)),
		Slots:         make(map[TimeSlotID]TimeSlot, len(slots)),
		Obligations:   make(map[ObligationID]TeachingObligation, len(obligations)),
		TargetSection: targetSection,
		External:      external,

		obligationsBySection: make(map[SectionID][]ObligationID),
		obligationsByFaculty: make(map[FacultyID][]ObligationID),
		roomsByType:          make(map[bool][]RoomID),
		nextSlotSameDay:      make(map[TimeSlotID]TimeSlotID),
	}

	for _, c := range courses {
		ctx.Courses[c.ID] = c
	}
	for _, f := range faculties {
		ctx.Faculties[f.ID] = f
	}
	for _, r := range rooms {
		ctx.Rooms[r.ID] = r
		ctx.roomsByType[r.IsLab] = append(ctx.roomsByType[r.IsLab], r.ID)
	}
	for _, s := range sections {
		ctx.Sections[s.ID] = s
	}
	for _, slot := range slots {
		ctx.Slots[slot.ID] = slot
		ctx.SlotOrder = append(ctx.SlotOrder, slot.ID)
	}
	sort.Slice(ctx.SlotOrder, func(i, j int) bool {
		a, b := ctx.Slots[ctx.SlotOrder[i]], ctx.Slots[ctx.SlotOrder[j]]
		if a.DayIndex != b.DayIndex {
			return a.DayIndex < b.DayIndex
		}
		return a.Period < b.Period
	})

	for _, o := range obligations {
		ctx.Obligations[o.ID] = o
		ctx.obligationsBySection[o.Section] = append(ctx.obligationsBySection[o.Section], o.ID)
		ctx.obligationsByFaculty[o.Faculty] = append(ctx.obligationsByFaculty[o.Faculty], o.ID)
	}

	byDayPeriod := make(map[[2]int]TimeSlotID, len(slots))
	for _, id := range ctx.SlotOrder {
		slot := ctx.Slots[id]
		byDayPeriod[[2]int{slot.DayIndex, slot.Period}] = id
	}
	for _, id := range ctx.SlotOrder {
		slot := ctx.Slots[id]
		if next, ok := byDayPeriod[[2]int{slot.DayIndex, slot.Period + 1}]; ok {
			ctx.nextSlotSameDay[id] = next
		}
	}

	return ctx
}

// ObligationsForSection returns every obligation belonging to a section, in
// the order they were registered.
func (c *ScheduleContext) ObligationsForSection(section SectionID) []ObligationID {
	return c.obligationsBySection[section]
}

// ObligationsForFaculty returns every obligation assigned to a faculty.
func (c *ScheduleContext) ObligationsForFaculty(faculty FacultyID) []ObligationID {
	return c.obligationsByFaculty[faculty]
}

// RoomsOfType returns every room ID with the given IsLab flag.
func (c *ScheduleContext) RoomsOfType(isLab bool) []RoomID {
	return c.roomsByType[isLab]
}

// NextSlotSameDay returns the slot immediately following s on the same
// day, and false if s is the last period of the day or unknown.
func (c *ScheduleContext) NextSlotSameDay(s TimeSlotID) (TimeSlotID, bool) {
	next, ok := c.nextSlotSameDay[s]
	return next, ok
}
