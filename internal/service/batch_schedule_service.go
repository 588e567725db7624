package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/dto"
	"github.com/noah-isme/timetable-scheduler/internal/models"
	"github.com/noah-isme/timetable-scheduler/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-scheduler/pkg/errors"
	"github.com/noah-isme/timetable-scheduler/pkg/jobs"
)

type batchJobStore interface {
	Create(ctx context.Context, job *models.BatchGenerationJob) error
	GetByID(ctx context.Context, id string) (*models.BatchGenerationJob, error)
	Update(ctx context.Context, id string, params models.BatchJobUpdate) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// sectionScheduler is the subset of ScheduleGeneratorService a batch run
// needs: start one section's generation and drain its terminal event.
type sectionScheduler interface {
	Generate(ctx context.Context, sectionID domain.SectionID, req dto.GenerateRequest) (<-chan scheduler.Progress, error)
	RecordOutcome(ctx context.Context, sectionID domain.SectionID, terminal scheduler.Progress, duration time.Duration)
}

// BatchScheduleService fans a multi-section generation request out across
// the shared background worker pool: one queued job per batch run, each
// job handler sequentially driving the hybrid orchestrator for every
// requested section so concurrent per-section runs never contend for the
// same shared faculty/room resources mid-batch.
type BatchScheduleService struct {
	repo      batchJobStore
	scheduler sectionScheduler
	queue     jobDispatcher
	logger    *zap.Logger
}

// NewBatchScheduleService constructs a BatchScheduleService. queue may be
// nil at construction time (the caller needs a bound *BatchScheduleService
// to build the queue's handler function before the queue itself exists)
// and must be attached with SetQueue before CreateBatch is called.
func NewBatchScheduleService(repo batchJobStore, sched sectionScheduler, queue jobDispatcher, logger *zap.Logger) *BatchScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchScheduleService{repo: repo, scheduler: sched, queue: queue, logger: logger}
}

// SetQueue attaches the dispatcher used by CreateBatch, breaking the
// construction cycle between a jobs.Queue (which needs this service's
// Handle method as its handler) and this service (which needs the queue
// to enqueue onto).
func (s *BatchScheduleService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateBatch persists a queued batch job and enqueues it for processing,
// returning immediately with the job's identifier.
func (s *BatchScheduleService) CreateBatch(ctx context.Context, req dto.BatchGenerateRequest) (*dto.BatchJobResponse, error) {
	if len(req.SectionIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section_ids must not be empty")
	}

	job := &models.BatchGenerationJob{
		SectionIDs: models.JSONIntSlice(req.SectionIDs),
		Status:     models.BatchJobQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch generation job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "batch-generate", Payload: req}); err != nil {
		failed := models.BatchJobFailed
		now := time.Now().UTC()
		_ = s.repo.Update(ctx, job.ID, models.BatchJobUpdate{Status: &failed, FinishedAt: &now})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue batch generation job")
	}

	return &dto.BatchJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus returns a batch job's current progress and accumulated
// per-section results.
func (s *BatchScheduleService) GetStatus(ctx context.Context, id string) (*dto.BatchStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("batch generation job %s not found", id))
	}
	return &dto.BatchStatusResponse{
		ID:         job.ID,
		Status:     job.Status,
		Progress:   job.Progress,
		SectionIDs: []int(job.SectionIDs),
		Results:    []models.SectionOutcome(job.Results),
	}, nil
}

// Handle is the pkg/jobs.Handler bridging a queued batch job to a
// sequence of hybrid scheduler runs, one per requested section. It
// updates the job row's progress and results after every section so
// GetStatus reflects partial completion of an in-flight batch.
func (s *BatchScheduleService) Handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.BatchGenerateRequest)
	if !ok {
		return fmt.Errorf("batch job %s: unexpected payload type %T", job.ID, job.Payload)
	}

	processing := models.BatchJobProcessing
	if err := s.repo.Update(ctx, job.ID, models.BatchJobUpdate{Status: &processing}); err != nil {
		return fmt.Errorf("batch job %s: mark processing: %w", job.ID, err)
	}

	var results models.SectionOutcomes
	for i, sectionID := range req.SectionIDs {
		outcome := s.runSection(ctx, domain.SectionID(sectionID), req.Config)
		results = append(results, outcome)

		progress := ((i + 1) * 100) / len(req.SectionIDs)
		if err := s.repo.Update(ctx, job.ID, models.BatchJobUpdate{Progress: &progress, Results: &results}); err != nil {
			s.logger.Sugar().Warnw("failed to persist batch job progress", "job_id", job.ID, "section_id", sectionID, "error", err)
		}
	}

	finalStatus := models.BatchJobFinished
	for _, r := range results {
		if !r.Success {
			finalStatus = models.BatchJobFailed
			break
		}
	}
	now := time.Now().UTC()
	progress := 100
	if err := s.repo.Update(ctx, job.ID, models.BatchJobUpdate{
		Status:     &finalStatus,
		Progress:   &progress,
		Results:    &results,
		FinishedAt: &now,
	}); err != nil {
		return fmt.Errorf("batch job %s: mark finished: %w", job.ID, err)
	}
	return nil
}

// runSection drives one section's generation to completion and reduces
// its terminal event to a SectionOutcome, recording the outcome the same
// way the synchronous single-section endpoint does.
func (s *BatchScheduleService) runSection(ctx context.Context, sectionID domain.SectionID, cfg dto.GenerateRequest) models.SectionOutcome {
	started := time.Now()
	events, err := s.scheduler.Generate(ctx, sectionID, cfg)
	if err != nil {
		return models.SectionOutcome{SectionID: int(sectionID), Success: false, Error: err.Error()}
	}

	var terminal scheduler.Progress
	for event := range events {
		terminal = event
	}

	s.scheduler.RecordOutcome(ctx, sectionID, terminal, time.Since(started))

	outcome := models.SectionOutcome{
		SectionID:      int(sectionID),
		Success:        terminal.Kind == scheduler.EventComplete,
		Fitness:        terminal.Fitness,
		HardViolations: terminal.HardViolations,
	}
	if terminal.Kind == scheduler.EventComplete {
		outcome.GenerationID = terminal.GenerationID.String()
	}
	if terminal.Kind == scheduler.EventError {
		outcome.Error = terminal.Message
	}
	return outcome
}
