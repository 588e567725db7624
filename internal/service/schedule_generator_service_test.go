package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/dto"
	"github.com/noah-isme/timetable-scheduler/internal/models"
	"github.com/noah-isme/timetable-scheduler/internal/scheduler"
)

type generationRecorderStub struct {
	recorded []models.Generation
	listed   []models.Generation
	err      error
}

func (g *generationRecorderStub) Record(ctx context.Context, gen models.Generation) error {
	g.recorded = append(g.recorded, gen)
	return g.err
}

func (g *generationRecorderStub) ListForSection(ctx context.Context, sectionID int) ([]models.Generation, error) {
	return g.listed, g.err
}

type catalogStub struct{}

func (catalogStub) CoursesForSemester(ctx context.Context, semester int) ([]domain.Course, error) {
	return []domain.Course{{ID: 1, Code: "C1", Semester: 1}}, nil
}
func (catalogStub) FacultyAll(ctx context.Context) ([]domain.Faculty, error) {
	return []domain.Faculty{{ID: 1, Code: "F1"}}, nil
}
func (catalogStub) RoomsAll(ctx context.Context) ([]domain.Room, error) {
	return []domain.Room{{ID: 1, Code: "R1", Capacity: 40}}, nil
}
func (catalogStub) TimeSlotsAll(ctx context.Context) ([]domain.TimeSlot, error) {
	return []domain.TimeSlot{
		{ID: 1, DayIndex: 0, Period: 1},
		{ID: 2, DayIndex: 0, Period: 2},
		{ID: 3, DayIndex: 1, Period: 1},
	}, nil
}
func (catalogStub) Section(ctx context.Context, id domain.SectionID) (domain.Section, error) {
	return domain.Section{ID: 1, Code: "S1", Semester: 1, Strength: 30}, nil
}

type obligationsStub struct{}

func (obligationsStub) ObligationsForSection(ctx context.Context, sectionID domain.SectionID) ([]domain.TeachingObligation, error) {
	return []domain.TeachingObligation{
		{ID: 1, Course: 1, Faculty: 1, Section: 1, Type: domain.SessionLecture, SessionsPerWeek: 2},
	}, nil
}

type crossSectionStub struct{}

func (crossSectionStub) AssignmentsForFaculty(ctx context.Context, facultyID domain.FacultyID, excludeSection domain.SectionID) ([]domain.Assignment, error) {
	return nil, nil
}
func (crossSectionStub) AssignmentsForRoom(ctx context.Context, roomID domain.RoomID, excludeSection domain.SectionID) ([]domain.Assignment, error) {
	return nil, nil
}

type sinkStub struct{ calls int }

func (s *sinkStub) ReplaceForSection(ctx context.Context, sectionID domain.SectionID, assignments []domain.Assignment, generationID uuid.UUID) error {
	s.calls++
	return nil
}

func newGeneratorService(recorder *generationRecorderStub, defaults scheduler.Config, timeout time.Duration) (*ScheduleGeneratorService, *sinkStub) {
	sink := &sinkStub{}
	orch := scheduler.New(catalogStub{}, obligationsStub{}, crossSectionStub{}, sink, nil)
	return NewScheduleGeneratorService(orch, recorder, nil, nil, nil, nil, defaults, timeout), sink
}

func TestGenerateDrivesRunToTerminalComplete(t *testing.T) {
	recorder := &generationRecorderStub{}
	svc, sink := newGeneratorService(recorder, scheduler.Config{}, 0)

	events, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{RNGSeed: 1})
	require.NoError(t, err)

	var terminal scheduler.Progress
	for e := range events {
		terminal = e
	}

	assert.Equal(t, scheduler.EventComplete, terminal.Kind)
	assert.True(t, terminal.Success)
	assert.Equal(t, 1, sink.calls)
}

func TestGenerateRejectsInvalidPayload(t *testing.T) {
	recorder := &generationRecorderStub{}
	svc, _ := newGeneratorService(recorder, scheduler.Config{}, 0)

	_, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{PopulationSize: 2})

	require.Error(t, err)
}

func TestMergeConfigLayersRequestOverDefaults(t *testing.T) {
	defaults := scheduler.Config{PopulationSize: 24, MaxGenerations: 120, CrossoverRate: 0.9}
	recorder := &generationRecorderStub{}
	svc, _ := newGeneratorService(recorder, defaults, 0)

	merged := svc.mergeConfig(dto.GenerateRequest{MaxGenerations: 50, RNGSeed: 7})

	assert.Equal(t, 24, merged.PopulationSize, "untouched field keeps the configured default")
	assert.Equal(t, 50, merged.MaxGenerations, "explicit request field wins")
	assert.InDelta(t, 0.9, merged.CrossoverRate, 1e-9)
	assert.EqualValues(t, 7, merged.RNGSeed)
}

func TestRecordOutcomePersistsTerminalEvent(t *testing.T) {
	recorder := &generationRecorderStub{}
	svc, _ := newGeneratorService(recorder, scheduler.Config{}, 0)

	genID := uuid.New()
	svc.RecordOutcome(context.Background(), 3, scheduler.Progress{
		Kind: scheduler.EventComplete, Success: true, Fitness: 970,
		Generations: 12, EntriesCount: 18, GenerationID: genID,
	}, time.Second)

	require.Len(t, recorder.recorded, 1)
	g := recorder.recorded[0]
	assert.Equal(t, genID.String(), g.ID)
	assert.Equal(t, 3, g.SectionID)
	assert.True(t, g.Success)
	assert.Equal(t, 970, g.Fitness)
}

func TestHistoryFormatsTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	recorder := &generationRecorderStub{listed: []models.Generation{
		{ID: "gen-1", SectionID: 1, Success: true, Fitness: 950, CreatedAt: created},
	}}
	svc, _ := newGeneratorService(recorder, scheduler.Config{}, 0)

	history, err := svc.History(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2026-03-09T08:30:00Z", history[0].CreatedAt)
}
