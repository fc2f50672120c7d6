package session

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

func setup(t *testing.T) (*Repository, sqlmock.Sqlmock, *txmanager.Manager) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock, txmanager.NewTransactionManager(db)
}

func newSession() *domain.Session {
	return &domain.Session{
		MentorID:        5,
		MenteeID:        11,
		ScheduledAt:     time.Date(2026, 3, 3, 17, 30, 0, 0, time.UTC),
		DurationMinutes: 15,
		Status:          domain.SessionPending,
		Price:           100,
		PaymentMethod:   domain.PaymentCard,
		Message:         "hello",
		SessionType:     "professional",
	}
}

func TestCreate(t *testing.T) {
	repo, mock, _ := setup(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(int64(5), int64(11), sqlmock.AnyArg(), 15, domain.SessionPending, 100.0, domain.PaymentCard, "hello", "professional").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	s, err := repo.Create(context.Background(), newSession())
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	repo, mock, _ := setup(t)

	mock.ExpectQuery(`INSERT INTO sessions`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), newSession())
	assert.ErrorIs(t, err, txmanager.ErrConflict)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, _ := setup(t)

	mock.ExpectQuery(`FROM sessions WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListActiveByMentor_PlainRead(t *testing.T) {
	repo, mock, _ := setup(t)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	at := time.Date(2026, 3, 3, 17, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM sessions WHERE mentor_id = \$1 AND status IN \(\$2,\$3\) AND scheduled_at >= \$4 AND scheduled_at < \$5 ORDER BY scheduled_at ASC$`).
		WithArgs(int64(5), "pending", "confirmed", from, to).
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow(int64(1), int64(5), int64(11), at, 15, "pending", 100.0, "card", nil, "professional", at, at))

	sessions, err := repo.ListActiveByMentor(context.Background(), 5, from, to)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.SessionPending, sessions[0].Status)
	assert.Equal(t, "", sessions[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveByMentor_LocksInsideTransaction(t *testing.T) {
	repo, mock, tx := setup(t)
	from := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`ORDER BY scheduled_at ASC FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(sessionColumns))
	mock.ExpectCommit()

	err := tx.DoSerializable(context.Background(), func(ctx context.Context) error {
		sessions, err := repo.ListActiveByMentor(ctx, 5, from, from.AddDate(0, 0, 1))
		assert.Empty(t, sessions)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveByMentor_SerializationFailureIsConflict(t *testing.T) {
	repo, mock, tx := setup(t)
	from := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()

	err := tx.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := repo.ListActiveByMentor(ctx, 5, from, from.AddDate(0, 0, 1))
		return err
	})
	assert.ErrorIs(t, err, txmanager.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
