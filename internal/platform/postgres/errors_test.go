package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil error passes through", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
	})

	t.Run("sql.ErrNoRows maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		err := MapError(sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrapped sql.ErrNoRows maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		err := MapError(fmt.Errorf("query failed: %w", sql.ErrNoRows))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique violation maps to ErrDuplicate", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tasks_pkey"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("foreign key violation maps to ErrInvalidEntity", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{
			Code:           foreignKeyViolationCode,
			ConstraintName: "content_source_trend_id_fkey",
		}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "content_source_trend_id_fkey")
	})

	t.Run("check violation maps to ErrInvalidEntity", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_progress_check"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("not null violation maps to ErrInvalidEntity", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("unrelated errors pass through unchanged", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("connection refused")
		assert.Equal(t, sentinel, MapError(sentinel))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode}
	assert.True(t, IsUniqueViolation(pgErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: foreignKeyViolationCode}
	assert.True(t, IsForeignKeyViolation(pgErr))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrTaskNotFound))
	})

	t.Run("zero rows returns sentinel", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("rows affected failure is wrapped", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{err: errors.New("driver does not support")}, store.ErrTaskNotFound)
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("nil result is rejected", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, store.ErrTaskNotFound))
	})
}
