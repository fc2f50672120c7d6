package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

func fastPolicy() Policy {
	return Policy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRead_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	retries := 0
	p := fastPolicy()
	p.OnRetry = func(error, time.Duration) { retries++ }

	res, err := Read(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection reset")
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, res)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRead_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	errDown := errors.New("db down")

	_, err := Read(context.Background(), fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, errDown
	})

	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, 3, calls)
}

func TestRead_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	errNotFound := errors.New("mentor not found")

	_, err := Read(context.Background(), fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, Permanent(errNotFound)
	})

	assert.ErrorIs(t, err, errNotFound)
	assert.Equal(t, 1, calls)
}

func TestRead_NoRetryInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	errDown := errors.New("db down")
	mgr := txmanager.NewTransactionManager(db)

	txErr := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := Read(ctx, fastPolicy(), func(context.Context) (int, error) {
			calls++
			return 0, errDown
		})
		return err
	})

	assert.ErrorIs(t, txErr, errDown)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
