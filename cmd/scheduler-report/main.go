// Command scheduler-report is an offline inspection tool for a section's
// committed schedule: it rebuilds the same ScheduleContext the hybrid
// orchestrator builds, re-runs the constraint evaluator against the rows
// currently committed in the assignments table, and prints a human-readable
// report plus the generation history recorded for that section.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/timetable-scheduler/internal/constraint"
	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/repository"
	"github.com/noah-isme/timetable-scheduler/pkg/config"
	"github.com/noah-isme/timetable-scheduler/pkg/database"
	"github.com/noah-isme/timetable-scheduler/pkg/logger"
)

func main() {
	sectionFlag := flag.Int("section", 0, "section ID to report on (required)")
	historyFlag := flag.Bool("history", true, "print the section's generation history")
	flag.Parse()

	if *sectionFlag <= 0 {
		fmt.Fprintln(os.Stderr, "usage: scheduler-report -section <id> [-history=false]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("connect to database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	sectionID := domain.SectionID(*sectionFlag)

	catalogRepo := repository.NewCatalogRepository(db)
	obligationRepo := repository.NewObligationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	generationRepo := repository.NewGenerationRepository(db)

	report, err := buildReport(ctx, sectionID, catalogRepo, obligationRepo, assignmentRepo)
	if err != nil {
		logr.Sugar().Fatalw("build report", "section_id", sectionID, "error", err)
	}

	fmt.Printf("section %d: %s\n", sectionID, report.Summarize())
	for _, v := range report.Hard {
		fmt.Printf("  [HARD] %s: %s\n", v.Code, v.Message)
	}
	for _, v := range report.Soft {
		fmt.Printf("  [soft] %s: %s\n", v.Code, v.Message)
	}

	if !*historyFlag {
		return
	}

	generations, err := generationRepo.ListForSection(ctx, int(sectionID))
	if err != nil {
		logr.Sugar().Fatalw("list generation history", "section_id", sectionID, "error", err)
	}
	fmt.Printf("\ngeneration history (%d runs):\n", len(generations))
	for _, g := range generations {
		status := "ok"
		if !g.Success {
			status = "failed: " + g.ErrorMessage
		}
		fmt.Printf("  %s  %s  fitness=%d hard=%d soft=%d entries=%d generations=%d\n",
			g.CreatedAt.Format("2006-01-02 15:04:05"), status, g.Fitness, g.HardViolations, g.SoftViolations, g.EntriesCount, g.Generations)
	}
}

// buildReport reconstructs a ScheduleContext the same way the orchestrator
// does for a live run, then evaluates it against the schedule's currently
// committed assignments rather than a freshly generated candidate.
func buildReport(ctx context.Context, sectionID domain.SectionID, catalog *repository.CatalogRepository, obligationRepo *repository.ObligationRepository, assignments *repository.AssignmentRepository) (constraint.Result, error) {
	section, err := catalog.Section(ctx, sectionID)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load section: %w", err)
	}
	faculties, err := catalog.FacultyAll(ctx)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load faculty: %w", err)
	}
	rooms, err := catalog.RoomsAll(ctx)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load rooms: %w", err)
	}
	slots, err := catalog.TimeSlotsAll(ctx)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load time slots: %w", err)
	}
	courses, err := catalog.CoursesForSemester(ctx, section.Semester)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load courses: %w", err)
	}
	obligations, err := obligationRepo.ObligationsForSection(ctx, sectionID)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load obligations: %w", err)
	}

	external, err := loadExternalOccupancy(ctx, sectionID, faculties, rooms, assignments)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load cross-section occupancy: %w", err)
	}

	committed, err := assignments.ForSection(ctx, sectionID)
	if err != nil {
		return constraint.Result{}, fmt.Errorf("load committed assignments: %w", err)
	}

	sc := domain.NewScheduleContext(sectionID, courses, faculties, rooms, []domain.Section{section}, slots, obligations, external)
	return constraint.Evaluate(sc, committed), nil
}

func loadExternalOccupancy(ctx context.Context, sectionID domain.SectionID, faculties []domain.Faculty, rooms []domain.Room, assignments *repository.AssignmentRepository) (domain.ExternalOccupancy, error) {
	ext := domain.ExternalOccupancy{
		FacultySlots: make(map[domain.FacultyID]map[domain.TimeSlotID]bool),
		RoomSlots:    make(map[domain.RoomID]map[domain.TimeSlotID]bool),
	}
	for _, f := range faculties {
		assigns, err := assignments.AssignmentsForFaculty(ctx, f.ID, sectionID)
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
		assigns, err := assignments.AssignmentsForRoom(ctx, r.ID, sectionID)
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
