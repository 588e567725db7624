package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

func TestObligationRepositoryObligationsForSection(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewObligationRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"id", "course_id", "faculty_id", "section_id", "batch_id", "session_type", "sessions_per_week", "created_at"}).
		AddRow(1, 1, 1, 5, 0, 0, 3, time.Now()).
		AddRow(2, 2, 1, 5, 1, 2, 1, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, faculty_id, section_id, batch_id, session_type, sessions_per_week, created_at")).
		WithArgs(5).
		WillReturnRows(rows)

	obligations, err := repo.ObligationsForSection(context.Background(), domain.SectionID(5))
	require.NoError(t, err)
	require.Len(t, obligations, 2)
	require.Equal(t, domain.SessionLecture, obligations[0].Type)
	require.True(t, obligations[1].IsLab())
	require.NoError(t, mock.ExpectationsWereMet())
}
