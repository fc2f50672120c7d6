package finalize_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-MentorBooking/internal/service/payments"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// MentorRepository интерфейс репозитория менторов
type MentorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Mentor, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
}

// WalletRepository интерфейс репозитория кошельков
type WalletRepository interface {
	DeductCredits(ctx context.Context, userID int64, credits int64, sessionID int64) (int64, error)
}

// PaymentRepository интерфейс репозитория платежей по сессиям
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.SessionPayment) (*domain.SessionPayment, error)
}

// AvailabilityChecker повторная проверка слота перед коммитом
type AvailabilityChecker interface {
	ValidateSlot(ctx context.Context, mentorID int64, date time.Time, slot types.TimeString) (domain.TimeSlot, error)
	ScheduledAt(date time.Time, slot types.TimeString) (time.Time, error)
}

// EligibilityChecker пересчет доступных способов оплаты в момент коммита
type EligibilityChecker interface {
	Eligibility(ctx context.Context, userID int64, sessionFee float64) (*payments.Eligibility, error)
}

// PaymentGateway внешний шлюз для оплаты картой
type PaymentGateway interface {
	Charge(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResult, error)
	Refund(ctx context.Context, chargeID string) error
}

// Notifier постановка уведомления о новой сессии. Ошибки не влияют на результат.
type Notifier interface {
	SessionBooked(ctx context.Context, p notifier.SessionBooked) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учет результатов финализации
type MetricsRecorder interface {
	RecordFinalize(method, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
