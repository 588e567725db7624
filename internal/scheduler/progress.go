package scheduler

import "github.com/google/uuid"

// EventKind is the terminal-or-not discriminator on a Progress event.
// Termination is signaled by a terminal kind, not by closing the channel,
// so consumers can tell normal completion from premature closure.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Progress is one event on the orchestrator's output stream. Only the
// fields relevant to Kind are populated; Kind is always set.
type Progress struct {
	Kind EventKind `json:"kind"`

	// EventProgress fields.
	Percent    int    `json:"percent,omitempty"`
	Status     string `json:"status,omitempty"`
	Substatus  string `json:"substatus,omitempty"`
	Generation int    `json:"generation,omitempty"`
	Fitness    int    `json:"fitness,omitempty"`

	// EventComplete fields.
	Success         bool         `json:"success,omitempty"`
	Generations     int          `json:"generations,omitempty"`
	HardViolations  int          `json:"hard_violations,omitempty"`
	SoftViolations  int          `json:"soft_violations,omitempty"`
	EntriesCount    int          `json:"entries_count,omitempty"`
	SectionID       int          `json:"section_id,omitempty"`
	GenerationID    uuid.UUID    `json:"generation_id,omitempty"`

	// EventError fields.
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func progressEvent(percent int, status, substatus string) Progress {
	return Progress{Kind: EventProgress, Percent: percent, Status: status, Substatus: substatus}
}

func generationEvent(percent, generation, fitness int) Progress {
	return Progress{Kind: EventProgress, Percent: percent, Status: "optimizing", Generation: generation, Fitness: fitness}
}

func errorEvent(message string, errs ...string) Progress {
	return Progress{Kind: EventError, Success: false, Message: message, Errors: errs}
}
