package optimizer

import (
	"sort"

	"github.com/noah-isme/timetable-scheduler/internal/csp"
	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// localOccupancy tracks what a single chromosome under construction has
// already placed. It is separate from (and much shorter-lived than) the
// CSP solver's conflictIndex, but checks the same three resource axes.
type localOccupancy struct {
	faculty map[domain.FacultyID]map[domain.TimeSlotID]bool
	room    map[domain.RoomID]map[domain.TimeSlotID]bool
	section map[domain.SectionID]map[domain.TimeSlotID]bool
}

func newLocalOccupancy() *localOccupancy {
	return &localOccupancy{
		faculty: make(map[domain.FacultyID]map[domain.TimeSlotID]bool),
		room:    make(map[domain.RoomID]map[domain.TimeSlotID]bool),
		section: make(map[domain.SectionID]map[domain.TimeSlotID]bool),
	}
}

func (o *localOccupancy) free(ob domain.TeachingObligation, c csp.Candidate) bool {
	slots := []domain.TimeSlotID{c.Slot}
	if c.Second != 0 {
		slots = append(slots, c.Second)
	}
	for _, s := range slots {
		if o.faculty[ob.Faculty][s] || o.room[c.Room][s] || o.section[ob.Section][s] {
			return false
		}
	}
	return true
}

func (o *localOccupancy) mark(ob domain.TeachingObligation, c csp.Candidate) {
	slots := []domain.TimeSlotID{c.Slot}
	if c.Second != 0 {
		slots = append(slots, c.Second)
	}
	for _, s := range slots {
		if o.faculty[ob.Faculty] == nil {
			o.faculty[ob.Faculty] = make(map[domain.TimeSlotID]bool)
		}
		o.faculty[ob.Faculty][s] = true
		if o.room[c.Room] == nil {
			o.room[c.Room] = make(map[domain.TimeSlotID]bool)
		}
		o.room[c.Room][s] = true
		if o.section[ob.Section] == nil {
			o.section[ob.Section] = make(map[domain.TimeSlotID]bool)
		}
		o.section[ob.Section][s] = true
	}
}

// initializePopulation seeds one chromosome from the CSP result and fills
// the rest with randomized greedy placements.
func (o *Optimizer) initializePopulation(
	sc *domain.ScheduleContext,
	obligations []domain.TeachingObligation,
	seed []domain.Assignment,
) []scored {
	population := make([]scored, 0, o.cfg.PopulationSize)
	if len(seed) > 0 {
		population = append(population, scored{chromosome: seedChromosome(sc, obligations, seed)})
	}
	for len(population) < o.cfg.PopulationSize {
		population = append(population, scored{chromosome: o.randomChromosome(sc, obligations)})
	}
	return population
}

// seedChromosome converts a flat assignment list (as produced by the CSP
// solver, two records per lab session) back into genes, pairing a lab
// obligation's same-day assignments into a single two-period gene.
func seedChromosome(sc *domain.ScheduleContext, obligations []domain.TeachingObligation, seed []domain.Assignment) Chromosome {
	obByID := make(map[domain.ObligationID]domain.TeachingObligation, len(obligations))
	for _, ob := range obligations {
		obByID[ob.ID] = ob
	}

	byObligation := make(map[domain.ObligationID][]domain.Assignment)
	for _, a := range seed {
		byObligation[a.Obligation] = append(byObligation[a.Obligation], a)
	}

	// Range in ObligationID order, not map iteration order: gene order
	// must be a pure function of the input data so that crossover point
	// and mutation gene index (both array-index-driven) are reproducible
	// under a fixed rng_seed.
	obIDs := make([]domain.ObligationID, 0, len(byObligation))
	for obID := range byObligation {
		obIDs = append(obIDs, obID)
	}
	sort.Slice(obIDs, func(i, j int) bool { return obIDs[i] < obIDs[j] })

	var out Chromosome
	for _, obID := range obIDs {
		assigns := byObligation[obID]
		ob := obByID[obID]
		sort.Slice(assigns, func(i, j int) bool {
			si, sj := sc.Slots[assigns[i].Slot], sc.Slots[assigns[j].Slot]
			if si.DayIndex != sj.DayIndex {
				return si.DayIndex < sj.DayIndex
			}
			return si.Period < sj.Period
		})
		if ob.IsLab() {
			for i := 0; i+1 < len(assigns); i += 2 {
				out = append(out, Gene{
					Obligation: obID,
					Session:    i / 2,
					Slot:       assigns[i].Slot,
					Second:     assigns[i+1].Slot,
					Room:       assigns[i].Room,
				})
			}
			continue
		}
		for i, a := range assigns {
			out = append(out, Gene{Obligation: obID, Session: i, Slot: a.Slot, Room: a.Room})
		}
	}
	return out
}

// randomChromosome places every variable via a bounded number of random
// probes into its precomputed domain, skipping a variable (yielding a
// partial chromosome) once the probe budget is exhausted.
func (o *Optimizer) randomChromosome(sc *domain.ScheduleContext, obligations []domain.TeachingObligation) Chromosome {
	occ := newLocalOccupancy()
	var out Chromosome

	for _, ob := range obligations {
		dom := csp.DomainFor(sc, ob)
		if len(dom) == 0 {
			continue
		}
		for session := 0; session < ob.SessionsPerWeek; session++ {
			for attempt := 0; attempt < maxRandomProbes; attempt++ {
				pick := dom[o.rng.Intn(len(dom))]
				if !occ.free(ob, pick) {
					continue
				}
				occ.mark(ob, pick)
				out = append(out, Gene{
					Obligation: ob.ID,
					Session:    session,
					Slot:       pick.Slot,
					Second:     pick.Second,
					Room:       pick.Room,
				})
				break
			}
			// an unplaced session after the probe budget is simply omitted
		}
	}
	return out
}
