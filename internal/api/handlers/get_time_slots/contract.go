package get_time_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

type AvailabilityService interface {
	TimeSlots(ctx context.Context, mentorID int64, date time.Time) ([]domain.TimeSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
