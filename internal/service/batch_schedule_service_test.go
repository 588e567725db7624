package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/dto"
	"github.com/noah-isme/timetable-scheduler/internal/models"
	"github.com/noah-isme/timetable-scheduler/internal/scheduler"
	"github.com/noah-isme/timetable-scheduler/pkg/jobs"
)

type batchJobStoreStub struct {
	jobs map[string]*models.BatchGenerationJob
}

func newBatchJobStoreStub() *batchJobStoreStub {
	return &batchJobStoreStub{jobs: map[string]*models.BatchGenerationJob{}}
}

func (s *batchJobStoreStub) Create(ctx context.Context, job *models.BatchGenerationJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *batchJobStoreStub) GetByID(ctx context.Context, id string) (*models.BatchGenerationJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (s *batchJobStoreStub) Update(ctx context.Context, id string, params models.BatchJobUpdate) error {
	job, ok := s.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.Results != nil {
		job.Results = *params.Results
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// schedulerStub satisfies sectionScheduler by replaying one canned terminal
// event per Generate call.
type schedulerStub struct {
	terminal scheduler.Progress
	recorded []domain.SectionID
}

func (s *schedulerStub) Generate(ctx context.Context, sectionID domain.SectionID, req dto.GenerateRequest) (<-chan scheduler.Progress, error) {
	ch := make(chan scheduler.Progress, 2)
	ch <- scheduler.Progress{Kind: scheduler.EventProgress, Percent: 10}
	ch <- s.terminal
	close(ch)
	return ch, nil
}

func (s *schedulerStub) RecordOutcome(ctx context.Context, sectionID domain.SectionID, terminal scheduler.Progress, duration time.Duration) {
	s.recorded = append(s.recorded, sectionID)
}

func TestBatchScheduleServiceCreateBatchQueuesJob(t *testing.T) {
	store := newBatchJobStoreStub()
	queue := &queueStub{}
	svc := NewBatchScheduleService(store, &schedulerStub{}, queue, nil)

	resp, err := svc.CreateBatch(context.Background(), dto.BatchGenerateRequest{SectionIDs: []int{1, 2}})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.BatchJobQueued, resp.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, resp.ID, queue.jobs[0].ID)
}

func TestBatchScheduleServiceCreateBatchRejectsEmptySectionList(t *testing.T) {
	svc := NewBatchScheduleService(newBatchJobStoreStub(), &schedulerStub{}, &queueStub{}, nil)

	_, err := svc.CreateBatch(context.Background(), dto.BatchGenerateRequest{})

	require.Error(t, err)
}

func TestBatchScheduleServiceCreateBatchMarksJobFailedWhenEnqueueFails(t *testing.T) {
	store := newBatchJobStoreStub()
	queue := &queueStub{err: errors.New("queue stopped")}
	svc := NewBatchScheduleService(store, &schedulerStub{}, queue, nil)

	_, err := svc.CreateBatch(context.Background(), dto.BatchGenerateRequest{SectionIDs: []int{1}})

	require.Error(t, err)
	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, models.BatchJobFailed, job.Status)
		assert.NotNil(t, job.FinishedAt)
	}
}

func TestBatchScheduleServiceHandleRunsEverySectionAndFinishes(t *testing.T) {
	store := newBatchJobStoreStub()
	sched := &schedulerStub{terminal: scheduler.Progress{
		Kind: scheduler.EventComplete, Success: true, Fitness: 980, GenerationID: uuid.New(),
	}}
	svc := NewBatchScheduleService(store, sched, &queueStub{}, nil)

	job := &models.BatchGenerationJob{SectionIDs: models.JSONIntSlice{1, 2, 3}}
	require.NoError(t, store.Create(context.Background(), job))

	err := svc.Handle(context.Background(), jobs.Job{ID: job.ID, Payload: dto.BatchGenerateRequest{SectionIDs: []int{1, 2, 3}}})

	require.NoError(t, err)
	assert.Equal(t, models.BatchJobFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.Len(t, job.Results, 3)
	for _, outcome := range job.Results {
		assert.True(t, outcome.Success)
		assert.Equal(t, 980, outcome.Fitness)
	}
	assert.Equal(t, []domain.SectionID{1, 2, 3}, sched.recorded)
}

func TestBatchScheduleServiceHandleMarksJobFailedOnSectionError(t *testing.T) {
	store := newBatchJobStoreStub()
	sched := &schedulerStub{terminal: scheduler.Progress{
		Kind: scheduler.EventError, Message: "csp exhausted and greedy failed",
	}}
	svc := NewBatchScheduleService(store, sched, &queueStub{}, nil)

	job := &models.BatchGenerationJob{SectionIDs: models.JSONIntSlice{7}}
	require.NoError(t, store.Create(context.Background(), job))

	err := svc.Handle(context.Background(), jobs.Job{ID: job.ID, Payload: dto.BatchGenerateRequest{SectionIDs: []int{7}}})

	require.NoError(t, err)
	assert.Equal(t, models.BatchJobFailed, job.Status)
	require.Len(t, job.Results, 1)
	assert.False(t, job.Results[0].Success)
	assert.Equal(t, "csp exhausted and greedy failed", job.Results[0].Error)
}

func TestBatchScheduleServiceGetStatusMapsJobFields(t *testing.T) {
	store := newBatchJobStoreStub()
	svc := NewBatchScheduleService(store, &schedulerStub{}, &queueStub{}, nil)

	job := &models.BatchGenerationJob{
		SectionIDs: models.JSONIntSlice{1, 2},
		Status:     models.BatchJobProcessing,
		Progress:   50,
		Results:    models.SectionOutcomes{{SectionID: 1, Success: true, Fitness: 940}},
	}
	require.NoError(t, store.Create(context.Background(), job))

	status, err := svc.GetStatus(context.Background(), job.ID)

	require.NoError(t, err)
	assert.Equal(t, models.BatchJobProcessing, status.Status)
	assert.Equal(t, 50, status.Progress)
	assert.Equal(t, []int{1, 2}, status.SectionIDs)
	require.Len(t, status.Results, 1)
}

func TestBatchScheduleServiceGetStatusUnknownJob(t *testing.T) {
	svc := NewBatchScheduleService(newBatchJobStoreStub(), &schedulerStub{}, &queueStub{}, nil)

	_, err := svc.GetStatus(context.Background(), "missing")

	require.Error(t, err)
}
