package get_bookable_dates

import (
	"context"
	"time"
)

type AvailabilityService interface {
	BookableDates(ctx context.Context, mentorID int64, horizonDays int) ([]time.Time, error)
	DefaultHorizonDays() int
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
