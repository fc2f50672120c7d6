package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

var sessionColumns = []string{
	"id",
	"mentor_id",
	"mentee_id",
	"scheduled_at",
	"duration_minutes",
	"status",
	"price",
	"payment_method",
	"message",
	"session_type",
	"created_at",
	"updated_at",
}

// Repository репозиторий сессий
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сессию.
// Вызывается только внутри сериализуемой транзакции финализации: если параллельная
// транзакция заняла тот же слот, Postgres вернёт 23505 или 40001, которые
// txmanager.IsConflict распознаёт как конфликт.
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"mentor_id",
			"mentee_id",
			"scheduled_at",
			"duration_minutes",
			"status",
			"price",
			"payment_method",
			"message",
			"session_type",
		).
		Values(
			s.MentorID,
			s.MenteeID,
			s.ScheduledAt,
			s.DurationMinutes,
			s.Status,
			s.Price,
			s.PaymentMethod,
			s.Message,
			s.SessionType,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: Create - insert session: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListActiveByMentor возвращает активные (pending, confirmed) сессии ментора,
// начинающиеся в полуинтервале [from, to).
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) ListActiveByMentor(ctx context.Context, mentorID int64, from, to time.Time) ([]*domain.Session, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"mentor_id": mentorID}).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.GtOrEq{"scheduled_at": from}).
		Where(squirrel.Lt{"scheduled_at": to}).
		OrderBy("scheduled_at ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByMentor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: ListActiveByMentor - lock sessions: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: ListActiveByMentor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByMentor - scan session: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: ListActiveByMentor - rows error: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: ListActiveByMentor - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var message sql.NullString
	err := row.Scan(
		&s.ID,
		&s.MentorID,
		&s.MenteeID,
		&s.ScheduledAt,
		&s.DurationMinutes,
		&s.Status,
		&s.Price,
		&s.PaymentMethod,
		&message,
		&s.SessionType,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Message = message.String
	return &s, nil
}
