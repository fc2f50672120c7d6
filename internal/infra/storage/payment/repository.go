package payment

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

// Repository записи об оплате сессий
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория оплат
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись об оплате. У каждой сессии ровно одна запись (UNIQUE session_id).
func (r *Repository) Create(ctx context.Context, p *domain.SessionPayment) (*domain.SessionPayment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("session_payments").
		Columns("session_id", "method", "amount", "credits", "cohort_id", "external_id").
		Values(p.SessionID, p.Method, p.Amount, p.Credits, p.CohortID, p.ExternalID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: Create - insert payment: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return p, nil
}
