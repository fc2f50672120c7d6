package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

// Repository доступ к недельному расписанию и исключениям по датам.
// Записи создаёт ментор в другом сервисе, здесь только чтение.
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyRules возвращает все правила недельного расписания ментора
func (r *Repository) GetWeeklyRules(ctx context.Context, mentorID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"mentor_id",
		"day_of_week",
		"is_active",
		"start_time",
		"end_time",
		"slot_duration_minutes",
	).
		From("weekly_availability").
		Where(squirrel.Eq{"mentor_id": mentorID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: GetWeeklyRules - execute query: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: GetWeeklyRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WeeklyAvailabilityRule, 0)
	for rows.Next() {
		var rule domain.WeeklyAvailabilityRule
		var duration sql.NullInt64
		if err := rows.Scan(
			&rule.ID,
			&rule.MentorID,
			&rule.DayOfWeek,
			&rule.IsActive,
			&rule.StartTime,
			&rule.EndTime,
			&duration,
		); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyRules - scan rule: %v", ErrScanRow, err)
		}
		rule.SlotDurationMinutes = nullInt(duration)
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetOverrides возвращает исключения ментора в диапазоне дат [from, to] включительно
func (r *Repository) GetOverrides(ctx context.Context, mentorID int64, from, to time.Time) ([]*domain.DateOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"mentor_id",
		"date",
		"is_available",
		"start_time",
		"end_time",
		"slot_duration_minutes",
	).
		From("date_overrides").
		Where(squirrel.Eq{"mentor_id": mentorID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: GetOverrides - execute query: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: GetOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.DateOverride, 0)
	for rows.Next() {
		var o domain.DateOverride
		var duration sql.NullInt64
		if err := rows.Scan(
			&o.ID,
			&o.MentorID,
			&o.Date,
			&o.IsAvailable,
			&o.StartTime,
			&o.EndTime,
			&duration,
		); err != nil {
			return nil, fmt.Errorf("%w: GetOverrides - scan override: %v", ErrScanRow, err)
		}
		o.SlotDurationMinutes = nullInt(duration)
		overrides = append(overrides, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
