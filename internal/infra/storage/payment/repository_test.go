package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

func TestCreate_Sponsored(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cohortID := int64(3)
	mock.ExpectQuery(`INSERT INTO session_payments \(session_id,method,amount,credits,cohort_id,external_id\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) RETURNING id, created_at`).
		WithArgs(int64(42), domain.PaymentSponsored, 0.0, int64(0), cohortID, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	p, err := NewRepository(db).Create(context.Background(), &domain.SessionPayment{
		SessionID: 42,
		Method:    domain.PaymentSponsored,
		CohortID:  &cohortID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
