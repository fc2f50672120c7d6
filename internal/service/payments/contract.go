package payments

import (
	"context"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// WalletRepository интерфейс репозитория кошельков
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
}

// CohortRepository интерфейс репозитория когорт
type CohortRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.CohortMembership, error)
}

// MentorRepository интерфейс репозитория менторов
type MentorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Mentor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
