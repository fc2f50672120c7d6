package cohort

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

// Repository членство пользователей в спонсорских когортах
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория когорт
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByUser возвращает все членства пользователя, активные первыми
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.CohortMembership, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "cohort_id", "is_active").
		From("cohort_memberships").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_active DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: ListByUser - execute query: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	memberships := make([]*domain.CohortMembership, 0)
	for rows.Next() {
		var m domain.CohortMembership
		if err := rows.Scan(&m.ID, &m.UserID, &m.CohortID, &m.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan membership: %v", ErrScanRow, err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return memberships, nil
}
