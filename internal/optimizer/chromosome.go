package optimizer

import "github.com/noah-isme/timetable-scheduler/internal/domain"

// Gene is one placed variable within a Chromosome: a session of an
// obligation bound to a (slot, room) pair, mirroring a csp.Variable +
// csp.Candidate pairing but owned by the optimizer so a generation's
// population can be mutated independently of the seed search.
type Gene struct {
	Obligation domain.ObligationID
	Session    int
	Slot       domain.TimeSlotID
	Second     domain.TimeSlotID // implied second period of a lab block, 0 otherwise
	Room       domain.RoomID
}

// Chromosome is an unordered list of Genes; gene order carries no
// semantic meaning and chromosomes are compared only by fitness.
type Chromosome []Gene

// ToAssignments flattens a Chromosome into the persisted Assignment
// form: one record per occupied period, two for a lab gene.
func (c Chromosome) ToAssignments() []domain.Assignment {
	out := make([]domain.Assignment, 0, len(c))
	for _, g := range c {
		out = append(out, domain.Assignment{Obligation: g.Obligation, Slot: g.Slot, Room: g.Room})
		if g.Second != 0 {
			out = append(out, domain.Assignment{Obligation: g.Obligation, Slot: g.Second, Room: g.Room})
		}
	}
	return out
}

// clone returns an independent copy so crossover/mutation never alias a
// parent's backing array.
func (c Chromosome) clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}
