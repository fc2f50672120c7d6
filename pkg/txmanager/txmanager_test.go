package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTxMock(t *testing.T) (*Manager, *sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTransactionManager(db), db, mock
}

func TestDoSerializable_Commit(t *testing.T) {
	mgr, db, mock := setupTxMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, IsInTransaction(ctx))
		_, err := GetExecutor(ctx, db).ExecContext(ctx, "UPDATE wallets SET balance_credits = 1")
		return err
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RollbackOnError(t *testing.T) {
	mgr, _, mock := setupTxMock(t)
	errBusiness := errors.New("slot taken")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_CommitConflict(t *testing.T) {
	mgr, _, mock := setupTxMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	mgr, _, mock := setupTxMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		return mgr.DoSerializable(ctx, func(inner context.Context) error {
			assert.True(t, IsInTransaction(inner))
			return nil
		})
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor_Fallback(t *testing.T) {
	_, db, _ := setupTxMock(t)

	assert.False(t, IsInTransaction(context.Background()))
	assert.Equal(t, DBExecutor(db), GetExecutor(context.Background(), db))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(&pq.Error{Code: "23505"}))
	assert.True(t, IsConflict(&pq.Error{Code: "40P01"}))
	assert.False(t, IsConflict(&pq.Error{Code: "23503"}))
	assert.False(t, IsConflict(errors.New("boom")))
}
