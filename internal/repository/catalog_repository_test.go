package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newCatalogRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCatalogRepositoryCoursesForSemester(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "semester", "credit_weight", "category", "lecture_hours", "tutorial_hours", "practical_hours", "is_elective", "created_at", "updated_at"}).
		AddRow(1, "CS101", 1, 4.0, "core", 3, 0, 2, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, semester, credit_weight, category, lecture_hours, tutorial_hours, practical_hours, is_elective, created_at, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	courses, err := repo.CoursesForSemester(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "CS101", courses[0].Code)
	require.Equal(t, 2, courses[0].PracticalHours)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryFacultyAllJoinsSlotSets(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, max_hours_per_day, max_hours_per_week, created_at, updated_at FROM faculty")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "max_hours_per_day", "max_hours_per_week", "created_at", "updated_at"}).
			AddRow(1, "F1", 4, 20, time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT faculty_id, time_slot_id FROM faculty_preferred_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"faculty_id", "time_slot_id"}).AddRow(1, 3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT faculty_id, time_slot_id FROM faculty_unavailable_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"faculty_id", "time_slot_id"}).AddRow(1, 7))

	faculties, err := repo.FacultyAll(context.Background())
	require.NoError(t, err)
	require.Len(t, faculties, 1)
	require.True(t, faculties[0].Preferred[3])
	require.True(t, faculties[0].Unavailable[7])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositorySectionLoadsBatches(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, semester, strength, created_at, updated_at FROM sections WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "semester", "strength", "created_at", "updated_at"}).
			AddRow(1, "S1", 1, 60, time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_id, code, strength, created_at FROM batches WHERE section_id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "section_id", "code", "strength", "created_at"}).
			AddRow(1, 1, "G1", 30, time.Now()))

	section, err := repo.Section(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, section.Batches, 1)
	require.Equal(t, "G1", section.Batches[0].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
