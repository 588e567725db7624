// Package scheduler drives the hybrid pipeline (validate, CSP seed,
// optimize, greedy fallback, persist), emitting a lazy progress stream.
package scheduler

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-scheduler/internal/constraint"
	"github.com/noah-isme/timetable-scheduler/internal/csp"
	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/optimizer"
)

// Orchestrator wires the catalog, obligation, cross-section and sink
// collaborators into one scheduling run per section.
type Orchestrator struct {
	catalog     CatalogProvider
	obligations ObligationProvider
	external    CrossSectionAssignments
	sink        AssignmentSink
	logger      *zap.Logger
}

// New builds an Orchestrator from its external collaborators.
func New(catalog CatalogProvider, obligations ObligationProvider, external CrossSectionAssignments, sink AssignmentSink, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{catalog: catalog, obligations: obligations, external: external, sink: sink, logger: logger}
}

// Generate runs one scheduling pass for sectionID and returns a channel of
// Progress events. The channel is closed once the terminal event (complete
// or error) has been sent. A caller that stops receiving stops the run by
// cancelling ctx; without that, the run blocks on its next send once the
// channel's buffer is full. No assignments are persisted unless the
// terminal step is reached.
func (o *Orchestrator) Generate(ctx context.Context, sectionID domain.SectionID, cfg Config) (<-chan Progress, error) {
	cfg, optCfg := normalize(cfg)
	out := make(chan Progress, 8)

	go o.run(ctx, sectionID, cfg, optCfg, out)

	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, sectionID domain.SectionID, cfg Config, optCfg optimizer.Config, out chan<- Progress) {
	defer close(out)

	if !o.send(ctx, out, progressEvent(0, "loading", "building schedule context")) {
		return
	}

	sc, obligations, err := o.loadContext(ctx, sectionID)
	if err != nil {
		o.send(ctx, out, errorEvent(err.Error()))
		return
	}

	if gaps := validatePrerequisites(sc, obligations); len(gaps) > 0 {
		o.send(ctx, out, errorEvent("prerequisite validation failed", gaps...))
		return
	}

	if !o.send(ctx, out, progressEvent(10, "seeding", "running CSP backtracking search")) {
		return
	}

	rng := rand.New(rand.NewSource(cfg.RNGSeed))
	solver := csp.New(rng)
	seed, solveErr := solver.Solve(ctx, sc, obligations)

	var final []domain.Assignment
	generations := 0

	switch {
	case solveErr == nil && cfg.useGA() && len(csp.BuildVariables(obligations)) > gaGeneThreshold:
		if !o.send(ctx, out, progressEvent(20, "optimizing", "evolving seeded population")) {
			return
		}
		opt := optimizer.New(optCfg)
		best, _ := opt.Run(ctx, sc, obligations, seed, func(p optimizer.Progress) {
			generations = p.Generation
			percent := 20 + (p.Generation*70)/max(cfg.MaxGenerations, 1)
			if percent > 90 {
				percent = 90
			}
			o.send(ctx, out, generationEvent(percent, p.Generation, p.BestFitness))
		})
		final = best.ToAssignments()

	case solveErr == nil:
		final = seed

	default:
		o.logger.Sugar().Warnw("csp search exhausted, falling back to greedy placement", "section_id", sectionID)
		if !o.send(ctx, out, progressEvent(20, "fallback", "CSP search exhausted, running greedy placement")) {
			return
		}
		final = greedySchedule(sc, obligations)
	}

	if len(final) == 0 && len(obligations) > 0 {
		o.send(ctx, out, errorEvent("both the CSP search and the greedy fallback failed to place any session"))
		return
	}

	if !o.send(ctx, out, progressEvent(95, "revalidating", "scoring final assignment set")) {
		return
	}
	result := constraint.Evaluate(sc, final)

	// A consumer that abandoned the stream cancels the run; nothing may be
	// persisted after that point even if the buffered sends above happened
	// to go through.
	if ctx.Err() != nil {
		return
	}

	generationID := uuid.New()
	if err := o.sink.ReplaceForSection(ctx, sectionID, final, generationID); err != nil {
		o.send(ctx, out, errorEvent("failed to persist generated schedule: "+err.Error()))
		return
	}

	o.send(ctx, out, Progress{
		Kind:           EventComplete,
		Success:        true,
		Fitness:        result.Score,
		Generations:    generations,
		HardViolations: len(result.Hard),
		SoftViolations: len(result.Soft),
		EntriesCount:   len(final),
		SectionID:      int(sectionID),
		GenerationID:   generationID,
	})
}

// send delivers an event unless ctx is done first, in which case it
// returns false and the caller abandons the run without persisting
// anything further.
func (o *Orchestrator) send(ctx context.Context, out chan<- Progress, p Progress) bool {
	select {
	case out <- p:
		return true
	case <-ctx.Done():
		return false
	}
}

func (o *Orchestrator) loadContext(ctx context.Context, sectionID domain.SectionID) (*domain.ScheduleContext, []domain.TeachingObligation, error) {
	section, err := o.catalog.Section(ctx, sectionID)
	if err != nil {
		return nil, nil, err
	}
	faculties, err := o.catalog.FacultyAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	rooms, err := o.catalog.RoomsAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	slots, err := o.catalog.TimeSlotsAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	courses, err := o.catalog.CoursesForSemester(ctx, section.Semester)
	if err != nil {
		return nil, nil, err
	}
	obligations, err := o.obligations.ObligationsForSection(ctx, sectionID)
	if err != nil {
		return nil, nil, err
	}

	external, err := o.loadExternalOccupancy(ctx, sectionID, faculties, rooms)
	if err != nil {
		return nil, nil, err
	}

	sc := domain.NewScheduleContext(sectionID, courses, faculties, rooms, []domain.Section{section}, slots, obligations, external)
	return sc, obligations, nil
}

func (o *Orchestrator) loadExternalOccupancy(ctx context.Context, sectionID domain.SectionID, faculties []domain.Faculty, rooms []domain.Room) (domain.ExternalOccupancy, error) {
	ext := domain.ExternalOccupancy{
		FacultySlots: make(map[domain.FacultyID]map[domain.TimeSlotID]bool),
		RoomSlots:    make(map[domain.RoomID]map[domain.TimeSlotID]bool),
	}
	for _, f := range faculties {
		assigns, err := o.external.AssignmentsForFaculty(ctx, f.ID, sectionID)
		if err != nil {
			return ext, err
		}
		for _, a := range assigns {
			if ext.FacultySlots[f.ID] == nil {
				ext.FacultySlots[f.ID] = make(map[domain.TimeSlotID]bool)
			}
			ext.FacultySlots[f.ID][a.Slot] = true
		}
	}
	for _, r := range rooms {
		assigns, err := o.external.AssignmentsForRoom(ctx, r.ID, sectionID)
		if err != nil {
			return ext, err
		}
		for _, a := range assigns {
			if ext.RoomSlots[r.ID] == nil {
				ext.RoomSlots[r.ID] = make(map[domain.TimeSlotID]bool)
			}
			ext.RoomSlots[r.ID][a.Slot] = true
		}
	}
	return ext, nil
}
