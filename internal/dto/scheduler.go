package dto

// GenerateRequest is the JSON body for POST /sections/:id/generate. Every
// field is optional; omitted or zero values fall back to the
// operator-configured scheduler defaults (ScheduleGeneratorService's
// mergeConfig), and anything still zero to the hybrid scheduler's own
// defaults (internal/scheduler.Config's normalize).
type GenerateRequest struct {
	PopulationSize int     `json:"population_size" validate:"omitempty,min=4,max=500"`
	MaxGenerations int     `json:"max_generations" validate:"omitempty,min=1,max=5000"`
	CrossoverRate  float64 `json:"crossover_rate" validate:"omitempty,min=0,max=1"`
	MutationRate   float64 `json:"mutation_rate" validate:"omitempty,min=0,max=1"`
	ElitismCount   int     `json:"elitism_count" validate:"omitempty,min=0,max=50"`
	TournamentSize int     `json:"tournament_size" validate:"omitempty,min=1,max=50"`
	UseGA          *bool   `json:"use_ga"`
	RNGSeed        int64   `json:"rng_seed"`
}

// GenerationSummary is the JSON shape of one entry in a section's
// generation history.
type GenerationSummary struct {
	ID             string `json:"id"`
	SectionID      int    `json:"section_id"`
	Success        bool   `json:"success"`
	Fitness        int    `json:"fitness"`
	Generations    int    `json:"generations"`
	HardViolations int    `json:"hard_violations"`
	SoftViolations int    `json:"soft_violations"`
	EntriesCount   int    `json:"entries_count"`
	ErrorMessage   string `json:"error_message,omitempty"`
	CreatedAt      string `json:"created_at"`
}
