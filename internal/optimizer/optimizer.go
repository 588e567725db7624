// Package optimizer implements the population-based local search that
// refines a CSP-seeded assignment set: a generational genetic algorithm
// with tournament selection, single-point crossover, single-gene
// mutation, elitism and early stopping.
package optimizer

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/noah-isme/timetable-scheduler/internal/constraint"
	"github.com/noah-isme/timetable-scheduler/internal/csp"
	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// Config carries the genetic-algorithm knobs exposed through the generate
// endpoint's request body and the scheduler env config.
type Config struct {
	PopulationSize int
	MaxGenerations int
	CrossoverRate  float64
	MutationRate   float64
	ElitismCount   int
	TournamentSize int
	RNGSeed        int64
}

// DefaultConfig returns the tuning values used when a caller leaves a
// field unset.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 40,
		MaxGenerations: 300,
		CrossoverRate:  0.85,
		MutationRate:   0.15,
		ElitismCount:   2,
		TournamentSize: 3,
	}
}

// perfectEnoughFitness and noImprovementLimit are the two early-stop
// thresholds that end a run before the generation budget does: a
// hard-violation-free schedule scoring at least 900, or a 100-generation
// plateau.
const (
	perfectEnoughFitness = 900
	noImprovementLimit   = 100
	maxRandomProbes      = 100
)

// Progress is emitted once per generation; the orchestrator turns it into
// a streamed progress event.
type Progress struct {
	Generation  int
	BestFitness int
	Hard        int
	Soft        int
}

// Optimizer evolves a population of candidate schedules generation by
// generation, keeping the fittest.
type Optimizer struct {
	cfg Config
	rng *rand.Rand
}

// New builds an Optimizer with cfg, defaulting any zero-valued field.
func New(cfg Config) *Optimizer {
	d := DefaultConfig()
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = d.PopulationSize
	}
	if cfg.MaxGenerations <= 0 {
		cfg.MaxGenerations = d.MaxGenerations
	}
	if cfg.CrossoverRate <= 0 {
		cfg.CrossoverRate = d.CrossoverRate
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = d.MutationRate
	}
	if cfg.ElitismCount <= 0 {
		cfg.ElitismCount = d.ElitismCount
	}
	if cfg.TournamentSize <= 0 {
		cfg.TournamentSize = d.TournamentSize
	}
	return &Optimizer{cfg: cfg, rng: rand.New(rand.NewSource(cfg.RNGSeed))}
}

type scored struct {
	chromosome Chromosome
	result     constraint.Result
}

// Run evolves a population seeded from the CSP result (one chromosome
// built from it verbatim, the remainder randomized) until the generation
// budget, an early stop, or ctx cancellation ends it, invoking onProgress
// once per generation.
func (o *Optimizer) Run(
	ctx context.Context,
	sc *domain.ScheduleContext,
	obligations []domain.TeachingObligation,
	seed []domain.Assignment,
	onProgress func(Progress),
) (Chromosome, constraint.Result) {
	population := o.initializePopulation(sc, obligations, seed)
	pool := o.scorePopulation(ctx, sc, population)
	sort.Slice(pool, func(i, j int) bool { return pool[i].result.Score > pool[j].result.Score })

	best := pool[0]
	bestGeneration := 0

	for gen := 1; gen <= o.cfg.MaxGenerations; gen++ {
		if ctx.Err() != nil {
			break
		}

		next := make([]scored, 0, len(pool))
		for i := 0; i < o.cfg.ElitismCount && i < len(pool); i++ {
			next = append(next, pool[i])
		}
		for len(next) < len(pool) {
			parentA := o.tournamentSelect(pool)
			parentB := o.tournamentSelect(pool)
			childA, childB := parentA.chromosome.clone(), parentB.chromosome.clone()
			if o.rng.Float64() < o.cfg.CrossoverRate {
				childA, childB = o.crossover(parentA.chromosome, parentB.chromosome)
			}
			childA = o.mutate(sc, childA)
			next = append(next, scored{chromosome: childA})
			if len(next) < len(pool) {
				childB = o.mutate(sc, childB)
				next = append(next, scored{chromosome: childB})
			}
		}

		pool = o.scorePopulation(ctx, sc, next)
		sort.Slice(pool, func(i, j int) bool { return pool[i].result.Score > pool[j].result.Score })

		if pool[0].result.Score > best.result.Score {
			best = pool[0]
			bestGeneration = gen
		}

		if onProgress != nil {
			onProgress(Progress{
				Generation:  gen,
				BestFitness: best.result.Score,
				Hard:        len(best.result.Hard),
				Soft:        len(best.result.Soft),
			})
		}

		if len(best.result.Hard) == 0 && best.result.Score >= perfectEnoughFitness {
			break
		}
		if gen-bestGeneration >= noImprovementLimit {
			break
		}
	}

	return best.chromosome, best.result
}

// scorePopulation evaluates every chromosome's fitness concurrently: the
// evaluator is pure and the context read-only, so this does not affect
// determinism under a fixed seed. Only the single-threaded
// selection/crossover/mutation/elitism loop above does, and it never runs
// concurrently with this.
func (o *Optimizer) scorePopulation(ctx context.Context, sc *domain.ScheduleContext, population []scored) []scored {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(population) {
		workers = len(population)
	}
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range population {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			population[i].result = constraint.Evaluate(sc, population[i].chromosome.ToAssignments())
		}(i)
	}
	wg.Wait()
	return population
}

func (o *Optimizer) tournamentSelect(pool []scored) scored {
	best := pool[o.rng.Intn(len(pool))]
	for i := 1; i < o.cfg.TournamentSize; i++ {
		candidate := pool[o.rng.Intn(len(pool))]
		if candidate.result.Score > best.result.Score {
			best = candidate
		}
	}
	return best
}

// crossover performs single-point crossover: an index within the shorter
// parent's gene list, tails exchanged between two children.
func (o *Optimizer) crossover(a, b Chromosome) (Chromosome, Chromosome) {
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	if shorter == 0 {
		return a.clone(), b.clone()
	}
	point := o.rng.Intn(shorter)

	childA := make(Chromosome, 0, len(a))
	childA = append(childA, a[:point]...)
	childA = append(childA, b[point:]...)

	childB := make(Chromosome, 0, len(b))
	childB = append(childB, b[:point]...)
	childB = append(childB, a[point:]...)

	return childA, childB
}

// mutate picks one gene and replaces its slot/room with a uniformly
// random in-domain draw; if no alternative respecting the lab
// period-parity constraint exists, the gene is left unchanged.
func (o *Optimizer) mutate(sc *domain.ScheduleContext, c Chromosome) Chromosome {
	if len(c) == 0 || o.rng.Float64() >= o.cfg.MutationRate {
		return c
	}
	c = c.clone()
	i := o.rng.Intn(len(c))
	gene := c[i]

	ob, ok := sc.Obligations[gene.Obligation]
	if !ok {
		return c
	}
	domainValues := csp.DomainFor(sc, ob)
	if len(domainValues) == 0 {
		return c
	}
	pick := domainValues[o.rng.Intn(len(domainValues))]
	c[i] = Gene{
		Obligation: gene.Obligation,
		Session:    gene.Session,
		Slot:       pick.Slot,
		Second:     pick.Second,
		Room:       pick.Room,
	}
	return c
}
