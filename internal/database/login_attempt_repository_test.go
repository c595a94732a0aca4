package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAttemptRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoginAttemptRepository(db)
	since := time.Now().Add(-15 * time.Minute)
	last := time.Now().Add(-time.Minute)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(MAX\(created_at\), NOW\(\)\)\s+FROM login_attempts`).
		WithArgs("manager@hotel.test", "email", since).
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(3, last))

	count, got, err := repo.Count(context.Background(), "manager@hotel.test", "email", since)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, last, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginAttemptRepository_Record(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoginAttemptRepository(db)
	at := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO login_attempts`).
			WithArgs("10.0.0.1", "ip", at).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Record(context.Background(), "10.0.0.1", "ip", at))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO login_attempts`).
			WillReturnError(errors.New("connection reset"))

		err := repo.Record(context.Background(), "10.0.0.1", "ip", at)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record login attempt")
	})
}

func TestLoginAttemptRepository_ClearAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoginAttemptRepository(db)
	cutoff := time.Now().Add(-time.Hour)

	mock.ExpectExec(`DELETE FROM login_attempts WHERE identifier = \$1 AND identifier_type = \$2`).
		WithArgs("manager@hotel.test", "email").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM login_attempts WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	require.NoError(t, repo.Clear(context.Background(), "manager@hotel.test", "email"))
	deleted, err := repo.DeleteBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
