package csp

import "github.com/noah-isme/timetable-scheduler/internal/domain"

// Variable is one placement the solver must decide: the N-th weekly
// session of a TeachingObligation. A lab obligation's variable represents
// its whole two-period block; the second period is implied and never
// gets its own Variable.
type Variable struct {
	Obligation domain.ObligationID
	Session    int // 0-based index among the obligation's weekly sessions
}

// Candidate is one domain value for a Variable: a room to hold it and the
// starting slot (with the implied second slot for labs, else 0). Exported
// so the optimizer's random placer can reuse the same domain
// precomputation the solver uses.
type Candidate struct {
	Slot   domain.TimeSlotID
	Second domain.TimeSlotID
	Room   domain.RoomID
}

// BuildVariables expands every obligation into its weekly session
// variables: one per required period, except that a lab obligation
// contributes a single variable for its whole two-period block.
func BuildVariables(obligations []domain.TeachingObligation) []Variable {
	var vars []Variable
	for _, ob := range obligations {
		for i := 0; i < ob.SessionsPerWeek; i++ {
			vars = append(vars, Variable{Obligation: ob.ID, Session: i})
		}
	}
	return vars
}

// DomainFor precomputes every context-independent-feasible (slot, room)
// candidate for an obligation: room type and capacity match, faculty
// available, and, for labs, an odd starting period with a same-day
// successor slot.
func DomainFor(ctx *domain.ScheduleContext, ob domain.TeachingObligation) []Candidate {
	fac, ok := ctx.Faculties[ob.Faculty]
	if !ok {
		return nil
	}
	strength := GroupStrength(ctx, ob)
	rooms := ctx.RoomsOfType(ob.IsLab())

	var out []Candidate
	for _, slotID := range ctx.SlotOrder {
		slot := ctx.Slots[slotID]
		if fac.IsUnavailable(slotID) {
			continue
		}
		var second domain.TimeSlotID
		if ob.IsLab() {
			if !slot.IsValidLabStart() {
				continue
			}
			next, ok := ctx.NextSlotSameDay(slotID)
			if !ok {
				continue
			}
			if fac.IsUnavailable(next) {
				continue
			}
			second = next
		}
		for _, roomID := range rooms {
			room := ctx.Rooms[roomID]
			if room.Capacity < strength {
				continue
			}
			out = append(out, Candidate{Slot: slotID, Second: second, Room: roomID})
		}
	}
	return out
}

// GroupStrength returns the strength of the cohort a TeachingObligation
// occupies: a batch's strength if batch-bound, else the whole section's.
func GroupStrength(ctx *domain.ScheduleContext, ob domain.TeachingObligation) int {
	section, ok := ctx.Sections[ob.Section]
	if !ok {
		return 0
	}
	if ob.Batch == domain.NoBatch {
		return section.Strength
	}
	for _, b := range section.Batches {
		if b.ID == ob.Batch {
			return b.Strength
		}
	}
	return section.Strength
}
