// Package csp builds a hard-constraint-feasible seed assignment set via
// depth-first backtracking over (slot, room) domains, with forward
// checking and minimum-remaining-values variable ordering.
package csp

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// ErrNoSolution is returned when the search space is exhausted without
// finding a value for every variable.
var ErrNoSolution = fmt.Errorf("csp: search exhausted without a complete assignment")

// Solver owns one backtracking search's randomized value ordering.
type Solver struct {
	rng *rand.Rand
}

// New returns a Solver whose randomized value ordering is driven by rng.
func New(rng *rand.Rand) *Solver {
	return &Solver{rng: rng}
}

// Solve searches for a complete, hard-constraint-feasible assignment set
// for the given obligations. It returns ErrNoSolution (not a Go error
// wrapping a lower-level fault) when the search exhausts; the caller
// (the orchestrator) treats that as non-fatal and falls back to the
// greedy placer.
func (s *Solver) Solve(ctx context.Context, sc *domain.ScheduleContext, obligations []domain.TeachingObligation) ([]domain.Assignment, error) {
	vars := BuildVariables(obligations)
	if len(vars) == 0 {
		return nil, nil
	}

	domains := make(map[Variable][]Candidate, len(vars))
	obByID := make(map[domain.ObligationID]domain.TeachingObligation, len(obligations))
	for _, ob := range obligations {
		obByID[ob.ID] = ob
	}
	for _, v := range vars {
		domains[v] = DomainFor(sc, obByID[v.Obligation])
	}

	idx := newConflictIndex()
	assignment := make(map[Variable]Candidate, len(vars))
	remaining := append([]Variable(nil), vars...)

	if !s.backtrack(ctx, sc, obByID, domains, idx, assignment, remaining) {
		return nil, ErrNoSolution
	}

	return toAssignments(obByID, assignment), nil
}

// backtrack picks the most-constrained remaining variable (MRV,
// recomputed every call), tries its domain values in random order, and
// recurses. It mutates idx and assignment in place, undoing on failure.
func (s *Solver) backtrack(
	ctx context.Context,
	sc *domain.ScheduleContext,
	obByID map[domain.ObligationID]domain.TeachingObligation,
	domains map[Variable][]Candidate,
	idx *conflictIndex,
	assignment map[Variable]Candidate,
	remaining []Variable,
) bool {
	if ctx.Err() != nil {
		return false
	}
	if len(remaining) == 0 {
		return true
	}

	chosen, rest := selectMRV(sc, obByID, domains, idx, remaining)
	ob := obByID[chosen.Obligation]

	values := consistentValues(sc, ob, domains[chosen], idx)
	s.shuffle(values)

	for _, val := range values {
		idx.reserve(ob, val.Slot, val.Second, val.Room)
		assignment[chosen] = val

		if s.backtrack(ctx, sc, obByID, domains, idx, assignment, rest) {
			return true
		}

		delete(assignment, chosen)
		idx.release(ob, val.Slot, val.Second, val.Room)
	}

	return false
}

// selectMRV returns the variable among remaining with the fewest
// currently-consistent domain values, and the rest of the slice with it
// removed (order among the rest is otherwise preserved).
func selectMRV(
	sc *domain.ScheduleContext,
	obByID map[domain.ObligationID]domain.TeachingObligation,
	domains map[Variable][]Candidate,
	idx *conflictIndex,
	remaining []Variable,
) (Variable, []Variable) {
	bestPos := 0
	bestCount := -1
	for i, v := range remaining {
		ob := obByID[v.Obligation]
		count := len(consistentValues(sc, ob, domains[v], idx))
		if bestCount == -1 || count < bestCount {
			bestCount = count
			bestPos = i
		}
	}
	chosen := remaining[bestPos]
	rest := make([]Variable, 0, len(remaining)-1)
	rest = append(rest, remaining[:bestPos]...)
	rest = append(rest, remaining[bestPos+1:]...)
	return chosen, rest
}

func consistentValues(sc *domain.ScheduleContext, ob domain.TeachingObligation, dom []Candidate, idx *conflictIndex) []Candidate {
	var out []Candidate
	for _, c := range dom {
		if idx.consistent(sc, ob, c.Slot, c.Second, c.Room) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Solver) shuffle(values []Candidate) {
	s.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

// toAssignments flattens the variable->candidate map into an assignment
// slice ordered by (Obligation, Session), not map iteration order, so the
// seed's downstream gene order (internal/optimizer.seedChromosome) is a
// pure function of the input data rather than Go's randomized map order,
// as determinism under a fixed rng_seed requires.
func toAssignments(obByID map[domain.ObligationID]domain.TeachingObligation, assignment map[Variable]Candidate) []domain.Assignment {
	vars := make([]Variable, 0, len(assignment))
	for v := range assignment {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].Obligation != vars[j].Obligation {
			return vars[i].Obligation < vars[j].Obligation
		}
		return vars[i].Session < vars[j].Session
	})

	var out []domain.Assignment
	for _, v := range vars {
		c := assignment[v]
		out = append(out, domain.Assignment{Obligation: v.Obligation, Slot: c.Slot, Room: c.Room})
		if c.Second != 0 {
			out = append(out, domain.Assignment{Obligation: v.Obligation, Slot: c.Second, Room: c.Room})
		}
	}
	return out
}
