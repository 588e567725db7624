package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
	"github.com/noah-isme/timetable-scheduler/internal/service"
)

// CachedCrossSectionAssignments decorates AssignmentRepository's
// cross-section reads with a read-through Redis cache: the hybrid
// scheduler reads every faculty's and every room's external occupancy at
// the start of each run, so successive runs re-read the same rows, and
// invalidating on every
// ReplaceForSection keeps that read-through correct without the
// scheduler package needing to know caching exists at all.
type CachedCrossSectionAssignments struct {
	repo  *AssignmentRepository
	cache *service.CacheService
}

// NewCachedCrossSectionAssignments builds the caching decorator.
func NewCachedCrossSectionAssignments(repo *AssignmentRepository, cache *service.CacheService) *CachedCrossSectionAssignments {
	return &CachedCrossSectionAssignments{repo: repo, cache: cache}
}

// AssignmentsForFaculty returns facultyID's cross-section placements,
// serving from cache when available.
func (c *CachedCrossSectionAssignments) AssignmentsForFaculty(ctx context.Context, facultyID domain.FacultyID, excludeSection domain.SectionID) ([]domain.Assignment, error) {
	key := facultyCacheKey(facultyID, excludeSection)
	var cached []domain.Assignment
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	out, err := c.repo.AssignmentsForFaculty(ctx, facultyID, excludeSection)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, out, 0)
	return out, nil
}

// AssignmentsForRoom returns roomID's cross-section placements, serving
// from cache when available.
func (c *CachedCrossSectionAssignments) AssignmentsForRoom(ctx context.Context, roomID domain.RoomID, excludeSection domain.SectionID) ([]domain.Assignment, error) {
	key := roomCacheKey(roomID, excludeSection)
	var cached []domain.Assignment
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	out, err := c.repo.AssignmentsForRoom(ctx, roomID, excludeSection)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, out, 0)
	return out, nil
}

// ReplaceForSection commits assignments through the underlying repository
// and, on success, drops the cross-section cache: other sections' next
// read sees sectionID's new placements instead of a stale snapshot.
func (c *CachedCrossSectionAssignments) ReplaceForSection(ctx context.Context, sectionID domain.SectionID, assignments []domain.Assignment, generationID uuid.UUID) error {
	if err := c.repo.ReplaceForSection(ctx, sectionID, assignments, generationID); err != nil {
		return err
	}
	return c.cache.Invalidate(ctx, "xsection:*")
}

func facultyCacheKey(facultyID domain.FacultyID, excludeSection domain.SectionID) string {
	return fmt.Sprintf("xsection:faculty:%d:exclude:%d", facultyID, excludeSection)
}

func roomCacheKey(roomID domain.RoomID, excludeSection domain.SectionID) string {
	return fmt.Sprintf("xsection:room:%d:exclude:%d", roomID, excludeSection)
}
