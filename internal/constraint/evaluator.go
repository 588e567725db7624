package constraint

import (
	"fmt"
	"sort"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// Result is the outcome of evaluating one candidate assignment set: every
// violation found, split by severity, and the reduced scalar score.
type Result struct {
	Hard  []Violation
	Soft  []Violation
	Score int
}

// Summarize renders a one-line count for logs and the offline reporting
// CLI.
func (r Result) Summarize() string {
	return fmt.Sprintf("hard=%d soft=%d score=%d", len(r.Hard), len(r.Soft), r.Score)
}

// groupKey is a (resource, slot) pair used for H1/H2 grouping.
type groupKey struct {
	resource int
	slot     domain.TimeSlotID
}

// Evaluate is a pure function of ctx and assignments: it reads the context
// and the external cross-section occupancy it carries, and never mutates
// either. Calling it twice on the same inputs returns an equal Result.
func Evaluate(ctx *domain.ScheduleContext, assignments []domain.Assignment) Result {
	res := Result{}

	res.Hard = append(res.Hard, checkFacultyDoubleBook(ctx, assignments)...)
	res.Hard = append(res.Hard, checkRoomDoubleBook(ctx, assignments)...)
	res.Hard = append(res.Hard, checkSectionCollision(ctx, assignments)...)
	res.Hard = append(res.Hard, checkLabContiguity(ctx, assignments)...)
	res.Hard = append(res.Hard, checkFacultyUnavailable(ctx, assignments)...)
	res.Hard = append(res.Hard, checkCapacity(ctx, assignments)...)

	res.Soft = append(res.Soft, checkNonPreferredSlot(ctx, assignments)...)
	res.Soft = append(res.Soft, checkDailyOverload(ctx, assignments)...)
	res.Soft = append(res.Soft, checkConsecutiveDays(ctx, assignments)...)
	res.Soft = append(res.Soft, checkIntradayGap(ctx, assignments)...)

	res.Score = 1000 - 100*len(res.Hard) - 10*len(res.Soft)
	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

// checkFacultyDoubleBook is H1: grouped by (faculty, slot), global across
// every section known to the context, meaning local assignments plus the
// external cross-section occupancy the context carries.
func checkFacultyDoubleBook(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	byFacultySlot := make(map[groupKey]int)
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok {
			continue
		}
		byFacultySlot[groupKey{int(ob.Faculty), a.Slot}]++
		if ctx.External.IsFacultyBusy(ob.Faculty, a.Slot) {
			byFacultySlot[groupKey{int(ob.Faculty), a.Slot}]++
		}
	}
	var out []Violation
	for key, count := range byFacultySlot {
		if count > 1 {
			slot := ctx.Slots[key.slot]
			out = append(out, newHard(CodeFacultyDoubleBook,
				"faculty %d double-booked at %s", key.resource, slot))
		}
	}
	return sortedViolations(out)
}

// checkRoomDoubleBook is H2: grouped by (room, slot), global.
func checkRoomDoubleBook(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	byRoomSlot := make(map[groupKey]int)
	for _, a := range assignments {
		byRoomSlot[groupKey{int(a.Room), a.Slot}]++
		if ctx.External.IsRoomBusy(a.Room, a.Slot) {
			byRoomSlot[groupKey{int(a.Room), a.Slot}]++
		}
	}
	var out []Violation
	for key, count := range byRoomSlot {
		if count > 1 {
			slot := ctx.Slots[key.slot]
			out = append(out, newHard(CodeRoomDoubleBook,
				"room %d double-booked at %s", key.resource, slot))
		}
	}
	return sortedViolations(out)
}

// checkSectionCollision is H3: within the target section only, at most one
// whole-section assignment per slot, and a batch assignment excludes a
// concurrent whole-section assignment.
func checkSectionCollision(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	wholeSection := make(map[domain.TimeSlotID]int)
	anyBatch := make(map[domain.TimeSlotID]bool)
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok || ob.Section != ctx.TargetSection {
			continue
		}
		if ob.Batch == domain.NoBatch {
			wholeSection[a.Slot]++
		} else {
			anyBatch[a.Slot] = true
		}
	}
	var out []Violation
	for slot, count := range wholeSection {
		if count > 1 {
			out = append(out, newHard(CodeSectionCollision,
				"section carries %d whole-section assignments at %s", count, ctx.Slots[slot]))
		}
		if anyBatch[slot] {
			out = append(out, newHard(CodeSectionCollision,
				"whole-section assignment concurrent with a batch assignment at %s", ctx.Slots[slot]))
		}
	}
	return sortedViolations(out)
}

// checkLabContiguity is H4: for each (course, batch, day) laboratory
// group, the set of periods occupied must be exactly two contiguous
// integers.
func checkLabContiguity(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	type labKey struct {
		course domain.CourseID
		batch  domain.BatchID
		day    int
	}
	periods := make(map[labKey][]int)
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok || !ob.IsLab() {
			continue
		}
		slot, ok := ctx.Slots[a.Slot]
		if !ok {
			continue
		}
		key := labKey{ob.Course, ob.Batch, slot.DayIndex}
		periods[key] = append(periods[key], slot.Period)
	}
	var out []Violation
	for key, ps := range periods {
		sort.Ints(ps)
		contiguous := len(ps) == 2 && ps[1] == ps[0]+1
		if !contiguous {
			out = append(out, newHard(CodeLabContiguity,
				"lab course %d batch %d on day %d has non-contiguous periods %v",
				key.course, key.batch, key.day, ps))
		}
	}
	return sortedViolations(out)
}

// checkFacultyUnavailable is H5: an assignment placed at a slot in the
// obligation's faculty's unavailable set.
func checkFacultyUnavailable(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	var out []Violation
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok {
			continue
		}
		fac, ok := ctx.Faculties[ob.Faculty]
		if !ok {
			continue
		}
		if fac.IsUnavailable(a.Slot) {
			out = append(out, newHard(CodeFacultyUnavailable,
				"faculty %d placed at unavailable slot %s", ob.Faculty, ctx.Slots[a.Slot]))
		}
	}
	return out
}

// checkCapacity is H6: room capacity strictly less than the occupying
// group's strength (batch strength if batch-bound, else section strength).
func checkCapacity(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	var out []Violation
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok {
			continue
		}
		room, ok := ctx.Rooms[a.Room]
		if !ok {
			continue
		}
		strength := groupStrength(ctx, ob)
		if room.Capacity < strength {
			out = append(out, newHard(CodeCapacity,
				"room %d capacity %d below required strength %d", a.Room, room.Capacity, strength))
		}
	}
	return out
}

func groupStrength(ctx *domain.ScheduleContext, ob domain.TeachingObligation) int {
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

// checkNonPreferredSlot is S1: a faculty with a non-empty preferred set
// scheduled outside it.
func checkNonPreferredSlot(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	var out []Violation
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok {
			continue
		}
		fac, ok := ctx.Faculties[ob.Faculty]
		if !ok || len(fac.Preferred) == 0 {
			continue
		}
		if !fac.IsPreferred(a.Slot) {
			out = append(out, newSoft(CodeNonPreferredSlot,
				"faculty %d scheduled outside preferred slots at %s", ob.Faculty, ctx.Slots[a.Slot]))
		}
	}
	return out
}

// checkDailyOverload is S2: assignment count for a (faculty, day)
// exceeding max_hours_per_day.
func checkDailyOverload(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	type facDay struct {
		faculty domain.FacultyID
		day     int
	}
	counts := make(map[facDay]int)
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok {
			continue
		}
		slot, ok := ctx.Slots[a.Slot]
		if !ok {
			continue
		}
		counts[facDay{ob.Faculty, slot.DayIndex}]++
	}
	var out []Violation
	for key, count := range counts {
		fac, ok := ctx.Faculties[key.faculty]
		if !ok || fac.MaxHoursPerDay <= 0 {
			continue
		}
		if count > fac.MaxHoursPerDay {
			out = append(out, newSoft(CodeDailyOverload,
				"faculty %d has %d periods on day %d, exceeding max %d",
				key.faculty, count, key.day, fac.MaxHoursPerDay))
		}
	}
	return sortedViolations(out)
}

// checkConsecutiveDays is S3: a non-lab course taught on two adjacent
// weekdays.
func checkConsecutiveDays(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	type courseFaculty struct {
		course  domain.CourseID
		faculty domain.FacultyID
	}
	daysByCourse := make(map[courseFaculty]map[int]bool)
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok || ob.IsLab() {
			continue
		}
		slot, ok := ctx.Slots[a.Slot]
		if !ok {
			continue
		}
		key := courseFaculty{ob.Course, ob.Faculty}
		if daysByCourse[key] == nil {
			daysByCourse[key] = make(map[int]bool)
		}
		daysByCourse[key][slot.DayIndex] = true
	}
	var out []Violation
	for key, days := range daysByCourse {
		for d := range days {
			if days[d+1] {
				out = append(out, newSoft(CodeConsecutiveDays,
					"course %d taught on adjacent days %d and %d", key.course, d, d+1))
			}
		}
	}
	return sortedViolations(out)
}

// checkIntradayGap is S4: for the target section's whole-section
// assignments, two occupied periods on the same day with an unoccupied
// period between them, unless that gap is the lunch discontinuity.
func checkIntradayGap(ctx *domain.ScheduleContext, assignments []domain.Assignment) []Violation {
	occupiedByDay := make(map[int]map[int]bool)
	for _, a := range assignments {
		ob, ok := ctx.Obligations[a.Obligation]
		if !ok || ob.Section != ctx.TargetSection || ob.Batch != domain.NoBatch {
			continue
		}
		slot, ok := ctx.Slots[a.Slot]
		if !ok {
			continue
		}
		if occupiedByDay[slot.DayIndex] == nil {
			occupiedByDay[slot.DayIndex] = make(map[int]bool)
		}
		occupiedByDay[slot.DayIndex][slot.Period] = true
	}
	var out []Violation
	for day, periods := range occupiedByDay {
		var occupied []int
		for p := range periods {
			occupied = append(occupied, p)
		}
		sort.Ints(occupied)
		for i := 0; i+1 < len(occupied); i++ {
			a, b := occupied[i], occupied[i+1]
			gap := b - a
			if gap <= 1 {
				continue
			}
			if gap == 2 && a == domain.LunchBoundaryPeriod {
				continue // the only missing period is the lunch discontinuity
			}
			out = append(out, newSoft(CodeIntradayGap,
				"section idle between period %d and %d on day %d", a, b, day))
		}
	}
	return sortedViolations(out)
}

func sortedViolations(v []Violation) []Violation {
	sort.Slice(v, func(i, j int) bool {
		if v[i].Code != v[j].Code {
			return v[i].Code < v[j].Code
		}
		return v[i].Message < v[j].Message
	})
	return v
}
