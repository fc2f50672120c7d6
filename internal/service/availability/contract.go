package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// MentorRepository интерфейс репозитория менторов
type MentorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Mentor, error)
}

// AvailabilityRepository интерфейс репозитория расписания
type AvailabilityRepository interface {
	GetWeeklyRules(ctx context.Context, mentorID int64) ([]*domain.WeeklyAvailabilityRule, error)
	GetOverrides(ctx context.Context, mentorID int64, from, to time.Time) ([]*domain.DateOverride, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListActiveByMentor(ctx context.Context, mentorID int64, from, to time.Time) ([]*domain.Session, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RetryRecorder считает повторные чтения
type RetryRecorder interface {
	RecordReadRetry(operation string)
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
