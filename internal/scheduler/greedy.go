package scheduler

import (
	"sort"

	"github.com/noah-isme/timetable-scheduler/internal/csp"
	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// greedySchedule is the fallback invoked when the CSP seed builder
// exhausts its search: obligations sorted labs-first then by descending
// weekly hours, each placed at the first slot/room its precomputed domain
// offers that is still free, linearly scanned.
func greedySchedule(sc *domain.ScheduleContext, obligations []domain.TeachingObligation) []domain.Assignment {
	ordered := append([]domain.TeachingObligation(nil), obligations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IsLab() != ordered[j].IsLab() {
			return ordered[i].IsLab()
		}
		wi := weeklyPeriods(ordered[i])
		wj := weeklyPeriods(ordered[j])
		return wi > wj
	})

	faculty := make(map[domain.FacultyID]map[domain.TimeSlotID]bool)
	room := make(map[domain.RoomID]map[domain.TimeSlotID]bool)
	section := make(map[domain.SectionID]map[domain.TimeSlotID]bool)

	isFree := func(ob domain.TeachingObligation, c csp.Candidate) bool {
		slots := []domain.TimeSlotID{c.Slot}
		if c.Second != 0 {
			slots = append(slots, c.Second)
		}
		for _, s := range slots {
			if faculty[ob.Faculty][s] || room[c.Room][s] || section[ob.Section][s] {
				return false
			}
			if sc.External.IsFacultyBusy(ob.Faculty, s) || sc.External.IsRoomBusy(c.Room, s) {
				return false
			}
		}
		return true
	}
	markUsed := func(ob domain.TeachingObligation, c csp.Candidate) {
		slots := []domain.TimeSlotID{c.Slot}
		if c.Second != 0 {
			slots = append(slots, c.Second)
		}
		for _, s := range slots {
			if faculty[ob.Faculty] == nil {
				faculty[ob.Faculty] = make(map[domain.TimeSlotID]bool)
			}
			faculty[ob.Faculty][s] = true
			if room[c.Room] == nil {
				room[c.Room] = make(map[domain.TimeSlotID]bool)
			}
			room[c.Room][s] = true
			if section[ob.Section] == nil {
				section[ob.Section] = make(map[domain.TimeSlotID]bool)
			}
			section[ob.Section][s] = true
		}
	}

	var out []domain.Assignment
	for _, ob := range ordered {
		dom := csp.DomainFor(sc, ob)
		for session := 0; session < ob.SessionsPerWeek; session++ {
			for _, c := range dom {
				if !isFree(ob, c) {
					continue
				}
				markUsed(ob, c)
				out = append(out, domain.Assignment{Obligation: ob.ID, Slot: c.Slot, Room: c.Room})
				if c.Second != 0 {
					out = append(out, domain.Assignment{Obligation: ob.ID, Slot: c.Second, Room: c.Room})
				}
				break
			}
		}
	}
	return out
}

func weeklyPeriods(ob domain.TeachingObligation) int {
	if ob.IsLab() {
		return ob.SessionsPerWeek * 2
	}
	return ob.SessionsPerWeek
}
