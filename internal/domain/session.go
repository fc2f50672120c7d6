package domain

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// SessionStatus represents the lifecycle state of a booked session
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Session is a booked mentoring session
type Session struct {
	ID              int64
	MentorID        int64
	MenteeID        int64
	ScheduledAt     time.Time
	DurationMinutes int
	Status          SessionStatus
	Price           float64
	PaymentMethod   PaymentMethod
	Message         string
	SessionType     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive returns true if the session occupies the mentor's calendar
func (s *Session) IsActive() bool {
	return s.Status == SessionPending || s.Status == SessionConfirmed
}

// OccupiesDate reports whether an active session falls on the civil date in loc
func (s *Session) OccupiesDate(date time.Time, loc *time.Location) bool {
	if !s.IsActive() {
		return false
	}
	y1, m1, d1 := s.ScheduledAt.In(loc).Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OccupiesSlot reports whether an active session starts exactly at slot on date
func (s *Session) OccupiesSlot(date time.Time, slot types.TimeString, loc *time.Location) bool {
	if !s.OccupiesDate(date, loc) {
		return false
	}
	return types.NewTimeString(s.ScheduledAt.In(loc)) == slot
}
