package scheduler

import (
	"time"

	"github.com/noah-isme/timetable-scheduler/internal/optimizer"
)

// Config is the generate endpoint's tuning payload, all fields optional
// with the defaults below applied by normalize.
type Config struct {
	PopulationSize int     `json:"population_size"`
	MaxGenerations int     `json:"max_generations"`
	CrossoverRate  float64 `json:"crossover_rate"`
	MutationRate   float64 `json:"mutation_rate"`
	ElitismCount   int     `json:"elitism_count"`
	TournamentSize int     `json:"tournament_size"`
	UseGA          *bool   `json:"use_ga"`
	RNGSeed        int64   `json:"rng_seed"`
}

// useGA mirrors the `use_ga` default of true (a *bool lets "false" be
// distinguished from "absent" at the JSON boundary).
func (c Config) useGA() bool {
	return c.UseGA == nil || *c.UseGA
}

// gaGeneThreshold is the gene count at or below which the optimizer is skipped
// even if use_ga is true: running a population-based search over a
// handful of genes is pure overhead.
const gaGeneThreshold = 5

func defaultConfig() Config {
	return Config{
		PopulationSize: 40,
		MaxGenerations: 300,
		CrossoverRate:  0.85,
		MutationRate:   0.15,
		ElitismCount:   2,
		TournamentSize: 3,
		RNGSeed:        time.Now().UnixNano(),
	}
}

// normalize fills every zero-valued field with its default and returns
// the optimizer.Config view of the same values.
func normalize(c Config) (Config, optimizer.Config) {
	d := defaultConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = d.PopulationSize
	}
	if c.MaxGenerations <= 0 {
		c.MaxGenerations = d.MaxGenerations
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = d.CrossoverRate
	}
	if c.MutationRate <= 0 {
		c.MutationRate = d.MutationRate
	}
	if c.ElitismCount <= 0 {
		c.ElitismCount = d.ElitismCount
	}
	if c.TournamentSize <= 0 {
		c.TournamentSize = d.TournamentSize
	}
	if c.RNGSeed == 0 {
		c.RNGSeed = d.RNGSeed
	}
	return c, optimizer.Config{
		PopulationSize: c.PopulationSize,
		MaxGenerations: c.MaxGenerations,
		CrossoverRate:  c.CrossoverRate,
		MutationRate:   c.MutationRate,
		ElitismCount:   c.ElitismCount,
		TournamentSize: c.TournamentSize,
		RNGSeed:        c.RNGSeed,
	}
}
