package domain

// Assignment binds one period of one TeachingObligation to a concrete
// (TimeSlot, Room) pair. A laboratory obligation is placed as exactly two
// Assignments, one per period of its block, sharing Room, Faculty (via the
// shared Obligation) and Batch, never as a single record spanning both
// periods, so persistence and evaluation both operate on a flat per-period
// view of the schedule.
type Assignment struct {
	Obligation ObligationID
	Slot       TimeSlotID
	Room       RoomID
}
