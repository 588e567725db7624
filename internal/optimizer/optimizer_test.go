package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

func smallContext() (*domain.ScheduleContext, []domain.TeachingObligation) {
	slots := []domain.TimeSlot{
		{ID: 1, DayIndex: 0, Period: 1},
		{ID: 2, DayIndex: 0, Period: 2},
		{ID: 3, DayIndex: 1, Period: 1},
		{ID: 4, DayIndex: 1, Period: 2},
	}
	faculties := []domain.Faculty{{ID: 1, Code: "F1"}}
	rooms := []domain.Room{{ID: 1, Code: "R1", Capacity: 40}}
	section := domain.Section{ID: 1, Code: "S1", Semester: 1, Strength: 30}
	obligations := []domain.TeachingObligation{
		{ID: 1, Course: 1, Faculty: 1, Section: 1, Type: domain.SessionLecture, SessionsPerWeek: 2},
	}
	sc := domain.NewScheduleContext(1, nil, faculties, rooms, []domain.Section{section}, slots, obligations, domain.ExternalOccupancy{})
	return sc, obligations
}

func TestOptimizerRunImprovesOrMatchesSeed(t *testing.T) {
	sc, obligations := smallContext()
	seed := []domain.Assignment{
		{Obligation: 1, Slot: 1, Room: 1},
		{Obligation: 1, Slot: 2, Room: 1},
	}

	cfg := Config{PopulationSize: 8, MaxGenerations: 20, RNGSeed: 1}
	opt := New(cfg)

	var generationsSeen int
	best, result := opt.Run(context.Background(), sc, obligations, seed, func(p Progress) {
		generationsSeen = p.Generation
	})

	assert.NotEmpty(t, best)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.Greater(t, generationsSeen, 0)
}

func TestOptimizerRunIsDeterministicForFixedSeed(t *testing.T) {
	seed := []domain.Assignment{
		{Obligation: 1, Slot: 1, Room: 1},
		{Obligation: 1, Slot: 2, Room: 1},
	}
	cfg := Config{PopulationSize: 8, MaxGenerations: 15, RNGSeed: 99}

	run := func() Chromosome {
		sc, obligations := smallContext()
		opt := New(cfg)
		best, _ := opt.Run(context.Background(), sc, obligations, seed, nil)
		return best
	}

	first := run()
	second := run()

	assert.Equal(t, first, second, "identical rng_seed and context must yield the identical evolved chromosome")
}

func TestOptimizerRunStopsOnContextCancellation(t *testing.T) {
	sc, obligations := smallContext()
	seed := []domain.Assignment{{Obligation: 1, Slot: 1, Room: 1}, {Obligation: 1, Slot: 2, Room: 1}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{PopulationSize: 4, MaxGenerations: 50, RNGSeed: 1}
	opt := New(cfg)

	best, _ := opt.Run(ctx, sc, obligations, seed, nil)
	assert.NotNil(t, best)
}

func TestChromosomeToAssignmentsExpandsLabGenes(t *testing.T) {
	c := Chromosome{
		{Obligation: 1, Session: 0, Slot: 1, Room: 1},
		{Obligation: 2, Session: 0, Slot: 2, Second: 3, Room: 2},
	}
	assignments := c.ToAssignments()
	require.Len(t, assignments, 3)
}

func TestNewFillsDefaultsForZeroFields(t *testing.T) {
	opt := New(Config{})
	d := DefaultConfig()
	assert.Equal(t, d.PopulationSize, opt.cfg.PopulationSize)
	assert.Equal(t, d.MaxGenerations, opt.cfg.MaxGenerations)
	assert.Equal(t, d.ElitismCount, opt.cfg.ElitismCount)
}

func TestChromosomeCloneIsIndependent(t *testing.T) {
	c := Chromosome{{Obligation: 1, Slot: 1, Room: 1}}
	clone := c.clone()
	clone[0].Slot = 2

	assert.EqualValues(t, 1, c[0].Slot)
	assert.EqualValues(t, 2, clone[0].Slot)
}

func TestSeedChromosomePairsLabAssignmentsIntoOneGene(t *testing.T) {
	lecture := domain.TeachingObligation{ID: 1, Type: domain.SessionLecture, SessionsPerWeek: 1}
	lab := domain.TeachingObligation{ID: 2, Type: domain.SessionPractical, SessionsPerWeek: 1}
	obligations := []domain.TeachingObligation{lecture, lab}

	slots := map[domain.TimeSlotID]domain.TimeSlot{
		1: {ID: 1, DayIndex: 0, Period: 1},
		2: {ID: 2, DayIndex: 0, Period: 2},
		3: {ID: 3, DayIndex: 0, Period: 3},
	}
	sc := &domain.ScheduleContext{Slots: slots}

	seed := []domain.Assignment{
		{Obligation: 1, Slot: 1, Room: 1},
		{Obligation: 2, Slot: 2, Room: 2},
		{Obligation: 2, Slot: 3, Room: 2},
	}

	chromosome := seedChromosome(sc, obligations, seed)

	require.Len(t, chromosome, 2)
	for _, g := range chromosome {
		if g.Obligation == 2 {
			assert.EqualValues(t, 2, g.Slot)
			assert.EqualValues(t, 3, g.Second)
		} else {
			assert.EqualValues(t, 0, g.Second)
		}
	}
}

func TestInitializePopulationFillsRemainderRandomly(t *testing.T) {
	sc, obligations := smallContext()
	seed := []domain.Assignment{{Obligation: 1, Slot: 1, Room: 1}, {Obligation: 1, Slot: 2, Room: 1}}

	opt := New(Config{PopulationSize: 5, RNGSeed: 1})
	population := opt.initializePopulation(sc, obligations, seed)

	assert.Len(t, population, 5)
}

func TestCrossoverExchangesTails(t *testing.T) {
	opt := New(Config{RNGSeed: 7})
	a := Chromosome{{Obligation: 1}, {Obligation: 2}, {Obligation: 3}}
	b := Chromosome{{Obligation: 10}, {Obligation: 20}, {Obligation: 30}}

	childA, childB := opt.crossover(a, b)

	assert.Len(t, childA, 3)
	assert.Len(t, childB, 3)
}

func TestMutateLeavesChromosomeUnchangedWhenEmpty(t *testing.T) {
	sc, _ := smallContext()
	opt := New(Config{MutationRate: 1, RNGSeed: 1})

	mutated := opt.mutate(sc, Chromosome{})
	assert.Empty(t, mutated)
}
