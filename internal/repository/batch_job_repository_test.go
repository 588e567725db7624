package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/models"
)

func newBatchJobRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestBatchJobRepositoryCreateDefaultsStatusAndID(t *testing.T) {
	db, mock, cleanup := newBatchJobRepoMock(t)
	defer cleanup()
	repo := NewBatchJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batch_generation_jobs")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "QUEUED", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.BatchGenerationJob{SectionIDs: models.JSONIntSlice{1, 2, 3}}
	err := repo.Create(context.Background(), job)

	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	require.Equal(t, models.BatchJobQueued, job.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchJobRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newBatchJobRepoMock(t)
	defer cleanup()
	repo := NewBatchJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "section_ids", "status", "progress", "results", "created_at", "finished_at"}).
		AddRow("job-1", "[1,2]", "PROCESSING", 50, "[]", time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_ids, status, progress, results, created_at, finished_at")).
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, "job-1", job.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchJobRepositoryUpdateBuildsDynamicSetClause(t *testing.T) {
	db, mock, cleanup := newBatchJobRepoMock(t)
	defer cleanup()
	repo := NewBatchJobRepository(db)

	progress := 75
	status := models.BatchJobProcessing
	mock.ExpectExec(regexp.QuoteMeta("UPDATE batch_generation_jobs SET status = $1, progress = $2 WHERE id = $3")).
		WithArgs(status, progress, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", models.BatchJobUpdate{
		Status:   &status,
		Progress: &progress,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchJobRepositoryUpdateNoOpWhenNoFieldsSet(t *testing.T) {
	db, _, cleanup := newBatchJobRepoMock(t)
	defer cleanup()
	repo := NewBatchJobRepository(db)

	err := repo.Update(context.Background(), "job-1", models.BatchJobUpdate{})
	require.NoError(t, err)
}
