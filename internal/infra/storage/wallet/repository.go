package wallet

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

// Repository репозиторий кошельков с кредитами платформы
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория кошельков
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID получает кошелек пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id", "balance_credits", "updated_at").
		From("wallets").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var w domain.Wallet
	err = executor.QueryRowContext(ctx, query, args...).Scan(&w.UserID, &w.BalanceCredits, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, fmt.Errorf("%w: GetByUserID - read wallet: %v", txmanager.ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: GetByUserID - scan wallet: %v", ErrScanRow, err)
	}

	return &w, nil
}

// DeductCredits списывает credits с баланса и пишет строку в журнал wallet_transactions.
// Списание условное (balance_credits >= credits), поэтому баланс не уходит в минус
// даже при гонке. Должен вызываться внутри транзакции вместе с созданием сессии.
func (r *Repository) DeductCredits(ctx context.Context, userID int64, credits int64, sessionID int64) (int64, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wallets").
		Set("balance_credits", squirrel.Expr("balance_credits - ?", credits)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"balance_credits": credits}).
		Suffix("RETURNING balance_credits").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeductCredits - build update query: %v", ErrBuildQuery, err)
	}

	var balance int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		if txmanager.IsConflict(err) {
			return 0, fmt.Errorf("%w: DeductCredits - update balance: %v", txmanager.ErrConflict, err)
		}
		return 0, fmt.Errorf("%w: DeductCredits - execute update: %v", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Insert("wallet_transactions").
		Columns("user_id", "delta_credits", "reason", "session_id").
		Values(userID, -credits, "session_booking", sessionID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeductCredits - build ledger insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if txmanager.IsConflict(err) {
			return 0, fmt.Errorf("%w: DeductCredits - insert ledger row: %v", txmanager.ErrConflict, err)
		}
		return 0, fmt.Errorf("%w: DeductCredits - insert ledger row: %v", ErrExecQuery, err)
	}

	return balance, nil
}
