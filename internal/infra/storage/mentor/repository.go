package mentor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

// Repository репозиторий менторов (только чтение)
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория менторов
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ментора по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Mentor, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"session_fee",
		"platform_fee_percentage",
		"created_at",
		"updated_at",
	).
		From("mentors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Mentor
	var fee, pct sql.NullFloat64
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.Name,
		&fee,
		&pct,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: GetByID - read mentor: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: GetByID - scan mentor: %v", ErrScanRow, err)
	}

	if fee.Valid {
		m.SessionFee = &fee.Float64
	}
	if pct.Valid {
		m.PlatformFeePercentage = &pct.Float64
	}

	return &m, nil
}
