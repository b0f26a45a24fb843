// internal/store/postgres_test.go
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, createTestLogger(t)), mock
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestPostgresStore_FetchAllProfiles(t *testing.T) {
	store, mock := createTestStore(t)

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"uuid":"p-1","full_name":"Jane Smith","skills":["Go","SQL"],"years_of_experience":7.5}`)).
		AddRow([]byte(`{"uuid":"p-2","full_name":"Omar Haddad","location_raw":"Berlin, Germany"}`))
	mock.ExpectQuery(`SELECT payload FROM profiles`).WillReturnRows(rows)

	profiles, err := store.FetchAllProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "p-1", profiles[0].UUID)
	assert.Equal(t, "Jane Smith", profiles[0].FullName)
	assert.Equal(t, []string{"Go", "SQL"}, profiles[0].Skills)
	assert.Equal(t, 7.5, profiles[0].YearsOfExperience)
	assert.Equal(t, "Berlin, Germany", profiles[1].LocationRaw)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchAllProfiles_SkipsMalformedRows(t *testing.T) {
	store, mock := createTestStore(t)

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"uuid":"p-1","name":"Jane Smith"}`)).
		AddRow([]byte(`{not valid json`)).
		AddRow([]byte(`{"uuid":"p-3","name":"Chen Wei"}`))
	mock.ExpectQuery(`SELECT payload FROM profiles`).WillReturnRows(rows)

	profiles, err := store.FetchAllProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "p-1", profiles[0].UUID)
	assert.Equal(t, "p-3", profiles[1].UUID)
}

func TestPostgresStore_FetchAllAISummaries(t *testing.T) {
	store, mock := createTestStore(t)

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"uuid":"p-1","job_id":"job-9","moved":1,"fit_percentage":82.5,"matched":{"full_profile":{"summary":"Strong backend candidate"}}}`))
	mock.ExpectQuery(`SELECT payload FROM profile_ai_summaries`).WillReturnRows(rows)

	summaries, err := store.FetchAllAISummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, "p-1", summaries[0].UUID)
	assert.Equal(t, 82.5, summaries[0].FitPercentage)
	assert.True(t, summaries[0].InCRM())

	narrative, ok := summaries[0].NarrativeSummary()
	assert.True(t, ok)
	assert.Equal(t, "Strong backend candidate", narrative)
}

func TestPostgresStore_FetchAllJobs(t *testing.T) {
	store, mock := createTestStore(t)

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"id":"job-1","attributes":{"title":"Backend Engineer","skills":["Go"]}}`)).
		AddRow([]byte(`{"job_id":"job-2","attributes":{"job_title":"Data Analyst"}}`))
	mock.ExpectQuery(`SELECT payload FROM job_info`).WillReturnRows(rows)

	jobs, err := store.FetchAllJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "job-1", jobs[0].Identifier())
	assert.Equal(t, "Backend Engineer", jobs[0].Attributes["title"])
	assert.Equal(t, "job-2", jobs[1].Identifier())
}

// ==========================
// Error Handling Tests
// ==========================

func TestPostgresStore_QueryFailure(t *testing.T) {
	store, mock := createTestStore(t)

	mock.ExpectQuery(`SELECT payload FROM profiles`).
		WillReturnError(errors.New("connection refused"))

	_, err := store.FetchAllProfiles(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceUnavailable(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPostgresStore_RowIterationFailure(t *testing.T) {
	store, mock := createTestStore(t)

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"uuid":"p-1"}`)).
		RowError(0, errors.New("read timeout"))
	mock.ExpectQuery(`SELECT payload FROM job_info`).WillReturnRows(rows)

	_, err := store.FetchAllJobs(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceUnavailable(err))
}
