package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/models"
)

func TestGenerationRepositoryRecordDefaultsCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewGenerationRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generations")).
		WithArgs(sqlmock.AnyArg(), 5, true, 950, 12, 0, 1, 18, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	g := models.Generation{
		ID: uuid.NewString(), SectionID: 5, Success: true, Fitness: 950,
		Generations: 12, HardViolations: 0, SoftViolations: 1, EntriesCount: 18,
	}
	err = repo.Record(context.Background(), g)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationRepositoryListForSectionOrdersMostRecentFirst(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewGenerationRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"id", "section_id", "success", "fitness", "generations", "hard_violations", "soft_violations", "entries_count", "error_message", "created_at"}).
		AddRow("gen-2", 5, true, 980, 5, 0, 0, 18, "", time.Now()).
		AddRow("gen-1", 5, false, 0, 0, 0, 0, 0, "csp exhausted", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_id, success, fitness, generations, hard_violations, soft_violations, entries_count, error_message, created_at")).
		WithArgs(5).
		WillReturnRows(rows)

	generations, err := repo.ListForSection(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, generations, 2)
	require.Equal(t, "gen-2", generations[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
