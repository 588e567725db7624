package csp

import "github.com/noah-isme/timetable-scheduler/internal/domain"

// sectionKey indexes per-section occupancy by batch, using NoBatch as the
// sentinel for a whole-section placement.
type sectionKey struct {
	section domain.SectionID
	batch   domain.BatchID
	slot    domain.TimeSlotID
}

// conflictIndex is the mutable working state the solver owns exclusively
// while it searches: which faculty, room and section/batch slots are
// already taken by the assignment being built. It is distinct from the
// read-only domain.ScheduleContext and from domain.ExternalOccupancy,
// which records commitments from other sections and is consulted but
// never written here.
type conflictIndex struct {
	faculty map[domain.FacultyID]map[domain.TimeSlotID]bool
	room    map[domain.RoomID]map[domain.TimeSlotID]bool
	section map[sectionKey]bool
}

func newConflictIndex() *conflictIndex {
	return &conflictIndex{
		faculty: make(map[domain.FacultyID]map[domain.TimeSlotID]bool),
		room:    make(map[domain.RoomID]map[domain.TimeSlotID]bool),
		section: make(map[sectionKey]bool),
	}
}

// consistent reports whether placing an obligation's block at (slot, room),
// plus the implied second slot for a lab, would conflict with anything
// already reserved, or with the section's whole-section/batch exclusion
// rule (H3), or with another section's prior commitment to the same
// faculty/room (via external).
func (c *conflictIndex) consistent(ctx *domain.ScheduleContext, ob domain.TeachingObligation, slot, second domain.TimeSlotID, room domain.RoomID) bool {
	slots := []domain.TimeSlotID{slot}
	if second != 0 {
		slots = append(slots, second)
	}
	for _, s := range slots {
		if c.faculty[ob.Faculty][s] || ctx.External.IsFacultyBusy(ob.Faculty, s) {
			return false
		}
		if c.room[room][s] || ctx.External.IsRoomBusy(room, s) {
			return false
		}
		if ob.Batch == domain.NoBatch {
			for _, b := range ctx.Sections[ob.Section].Batches {
				if c.section[sectionKey{ob.Section, b.ID, s}] {
					return false
				}
			}
			if c.section[sectionKey{ob.Section, domain.NoBatch, s}] {
				return false
			}
		} else {
			if c.section[sectionKey{ob.Section, domain.NoBatch, s}] {
				return false
			}
			if c.section[sectionKey{ob.Section, ob.Batch, s}] {
				return false
			}
		}
	}
	return true
}

// reserve marks a chosen (slot, room), and the implied second slot for a
// lab, as occupied in all three indexes.
func (c *conflictIndex) reserve(ob domain.TeachingObligation, slot, second domain.TimeSlotID, room domain.RoomID) {
	slots := []domain.TimeSlotID{slot}
	if second != 0 {
		slots = append(slots, second)
	}
	for _, s := range slots {
		if c.faculty[ob.Faculty] == nil {
			c.faculty[ob.Faculty] = make(map[domain.TimeSlotID]bool)
		}
		c.faculty[ob.Faculty][s] = true
		if c.room[room] == nil {
			c.room[room] = make(map[domain.TimeSlotID]bool)
		}
		c.room[room][s] = true
		c.section[sectionKey{ob.Section, ob.Batch, s}] = true
	}
}

// release undoes reserve. The solver calls this to unwind a frame's
// reservation in place before trying the next candidate value, instead of
// cloning the index per branch.
func (c *conflictIndex) release(ob domain.TeachingObligation, slot, second domain.TimeSlotID, room domain.RoomID) {
	slots := []domain.TimeSlotID{slot}
	if second != 0 {
		slots = append(slots, second)
	}
	for _, s := range slots {
		delete(c.faculty[ob.Faculty], s)
		delete(c.room[room], s)
		delete(c.section, sectionKey{ob.Section, ob.Batch, s})
	}
}
