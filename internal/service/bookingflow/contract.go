package bookingflow

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// SlotValidator проверки выбора даты и времени
type SlotValidator interface {
	ValidateDate(ctx context.Context, mentorID int64, date time.Time) error
	ValidateSlot(ctx context.Context, mentorID int64, date time.Time, slot types.TimeString) (domain.TimeSlot, error)
}

// DraftStore хранилище черновиков с TTL
type DraftStore interface {
	Save(ctx context.Context, draft *domain.BookingDraft) error
	// Replace перезаписывает только существующий черновик
	Replace(ctx context.Context, draft *domain.BookingDraft) error
	Get(ctx context.Context, id string) (*domain.BookingDraft, error)
	Delete(ctx context.Context, id string) error
}

// MentorRepository интерфейс репозитория менторов
type MentorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Mentor, error)
}

// Finalizer фиксация черновика как сессии
type Finalizer interface {
	Execute(ctx context.Context, req *finalize_booking.Request) (*finalize_booking.Response, error)
}

// TransitionRecorder учет переходов между шагами
type TransitionRecorder interface {
	RecordTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
