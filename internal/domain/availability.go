package domain

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// WeeklyAvailabilityRule is a recurring per-weekday open flag.
// DayOfWeek follows time.Weekday: 0 = Sunday .. 6 = Saturday.
// Hours are optional; without them the default slot catalogue applies.
type WeeklyAvailabilityRule struct {
	ID                  int64
	MentorID            int64
	DayOfWeek           int
	IsActive            bool
	StartTime           *types.TimeString
	EndTime             *types.TimeString
	SlotDurationMinutes *int
}

// Weekday returns the rule weekday as time.Weekday
func (r *WeeklyAvailabilityRule) Weekday() time.Weekday {
	return time.Weekday(r.DayOfWeek)
}

// Hours returns the configured operating hours, nil if the rule has none
func (r *WeeklyAvailabilityRule) Hours() *SlotHours {
	return newSlotHours(r.StartTime, r.EndTime, r.SlotDurationMinutes)
}

// DateOverride forces a specific date open or closed.
// At most one override exists per (mentor, date).
type DateOverride struct {
	ID                  int64
	MentorID            int64
	Date                time.Time
	IsAvailable         bool
	StartTime           *types.TimeString
	EndTime             *types.TimeString
	SlotDurationMinutes *int
}

// Hours returns the override's own hours, nil if it has none
func (o *DateOverride) Hours() *SlotHours {
	if !o.IsAvailable {
		return nil
	}
	return newSlotHours(o.StartTime, o.EndTime, o.SlotDurationMinutes)
}

// SlotHours operating window split into equal slots: [Start, End)
type SlotHours struct {
	Start           types.TimeString
	End             types.TimeString
	DurationMinutes int
}

func newSlotHours(start, end *types.TimeString, duration *int) *SlotHours {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil
	}
	d := DefaultSlotDurationMinutes
	if duration != nil && *duration > 0 {
		d = *duration
	}
	return &SlotHours{Start: *start, End: *end, DurationMinutes: d}
}

// TimeSlot single bookable start time on a date
type TimeSlot struct {
	Start           types.TimeString
	DurationMinutes int
	Band            string // display band, e.g. "17:00–17:59"
}
