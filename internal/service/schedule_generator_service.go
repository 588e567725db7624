package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/dto"
	"github.com/noah-isme/timetable-scheduler/internal/models"
	"github.com/noah-isme/timetable-scheduler/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-scheduler/pkg/errors"
)

type generationRecorder interface {
	Record(ctx context.Context, g models.Generation) error
	ListForSection(ctx context.Context, sectionID int) ([]models.Generation, error)
}

type scheduleView interface {
	ScheduleForSection(ctx context.Context, sectionID domain.SectionID) ([]models.ScheduleEntryRow, error)
	ScheduleForFaculty(ctx context.Context, facultyID domain.FacultyID) ([]models.ScheduleEntryRow, error)
}

// ScheduleGeneratorService is the handler-facing façade over the hybrid
// orchestrator: it validates the request, runs a generation, and records
// its outcome for later listing.
type ScheduleGeneratorService struct {
	orchestrator *scheduler.Orchestrator
	generations  generationRecorder
	views        scheduleView
	validator    *validator.Validate
	metrics      *MetricsService
	logger       *zap.Logger
	defaults     scheduler.Config
	runTimeout   time.Duration
}

// NewScheduleGeneratorService constructs ScheduleGeneratorService. metrics
// may be nil, in which case run outcomes are simply not observed. defaults
// supplies the operator-configured fallbacks applied to any request field
// left at its zero value, and runTimeout bounds a single run's wall-clock
// time (0 means unbounded).
func NewScheduleGeneratorService(orchestrator *scheduler.Orchestrator, generations generationRecorder, views scheduleView, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, defaults scheduler.Config, runTimeout time.Duration) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{
		orchestrator: orchestrator,
		generations:  generations,
		views:        views,
		validator:    validate,
		metrics:      metrics,
		logger:       logger,
		defaults:     defaults,
		runTimeout:   runTimeout,
	}
}

// Generate validates req and starts a generation run for sectionID,
// returning the orchestrator's progress channel. The caller is
// responsible for draining it and recording the terminal event via
// RecordOutcome.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, sectionID domain.SectionID, req dto.GenerateRequest) (<-chan scheduler.Progress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	cfg := s.mergeConfig(req)

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if s.runTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
	}

	out, err := s.orchestrator.Generate(runCtx, sectionID, cfg)
	if err != nil {
		cancel()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start schedule generation")
	}

	forwarded := make(chan scheduler.Progress, 8)
	go func() {
		defer cancel()
		defer close(forwarded)
		for event := range out {
			select {
			case forwarded <- event:
			case <-runCtx.Done():
				return
			}
		}
	}()
	return forwarded, nil
}

// mergeConfig layers a request's explicit fields over the
// operator-configured defaults; anything still zero after that falls
// through to the scheduler's own built-in defaults.
func (s *ScheduleGeneratorService) mergeConfig(req dto.GenerateRequest) scheduler.Config {
	cfg := s.defaults
	if req.PopulationSize > 0 {
		cfg.PopulationSize = req.PopulationSize
	}
	if req.MaxGenerations > 0 {
		cfg.MaxGenerations = req.MaxGenerations
	}
	if req.CrossoverRate > 0 {
		cfg.CrossoverRate = req.CrossoverRate
	}
	if req.MutationRate > 0 {
		cfg.MutationRate = req.MutationRate
	}
	if req.ElitismCount > 0 {
		cfg.ElitismCount = req.ElitismCount
	}
	if req.TournamentSize > 0 {
		cfg.TournamentSize = req.TournamentSize
	}
	if req.UseGA != nil {
		cfg.UseGA = req.UseGA
	}
	if req.RNGSeed != 0 {
		cfg.RNGSeed = req.RNGSeed
	}
	return cfg
}

// RecordOutcome persists a generation run's terminal event so it shows up
// in the section's history and observes it on the scheduler metrics. It is
// best-effort: a failure to record is logged but never masks the
// generation result already delivered to the caller. duration is the
// wall-clock time the handler measured between starting the run and
// receiving this terminal event.
func (s *ScheduleGeneratorService) RecordOutcome(ctx context.Context, sectionID domain.SectionID, terminal scheduler.Progress, duration time.Duration) {
	success := terminal.Kind == scheduler.EventComplete
	g := models.Generation{
		ID:             terminal.GenerationID.String(),
		SectionID:      int(sectionID),
		Success:        success,
		Fitness:        terminal.Fitness,
		Generations:    terminal.Generations,
		HardViolations: terminal.HardViolations,
		SoftViolations: terminal.SoftViolations,
		EntriesCount:   terminal.EntriesCount,
		ErrorMessage:   terminal.Message,
	}
	// Error events carry no generation identifier; mint one so each failed
	// run still gets its own history row.
	if terminal.GenerationID == uuid.Nil {
		g.ID = uuid.NewString()
	}
	if err := s.generations.Record(ctx, g); err != nil {
		s.logger.Sugar().Warnw("failed to record generation outcome", "section_id", sectionID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveSchedulerRun(duration, terminal.Generations, terminal.HardViolations, terminal.Fitness, success)
	}
}

// History returns sectionID's generation history, most recent first.
func (s *ScheduleGeneratorService) History(ctx context.Context, sectionID domain.SectionID) ([]dto.GenerationSummary, error) {
	rows, err := s.generations.ListForSection(ctx, int(sectionID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation history")
	}
	out := make([]dto.GenerationSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.GenerationSummary{
			ID:             r.ID,
			SectionID:      r.SectionID,
			Success:        r.Success,
			Fitness:        r.Fitness,
			Generations:    r.Generations,
			HardViolations: r.HardViolations,
			SoftViolations: r.SoftViolations,
			EntriesCount:   r.EntriesCount,
			ErrorMessage:   r.ErrorMessage,
			CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// SectionSchedule returns sectionID's current committed schedule.
func (s *ScheduleGeneratorService) SectionSchedule(ctx context.Context, sectionID domain.SectionID) ([]models.ScheduleEntryRow, error) {
	rows, err := s.views.ScheduleForSection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section schedule")
	}
	return rows, nil
}

// FacultySchedule returns facultyID's current committed schedule across
// every section.
func (s *ScheduleGeneratorService) FacultySchedule(ctx context.Context, facultyID domain.FacultyID) ([]models.ScheduleEntryRow, error) {
	rows, err := s.views.ScheduleForFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty schedule")
	}
	return rows, nil
}
