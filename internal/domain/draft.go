package domain

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// BookingStep state of a booking flow
type BookingStep string

const (
	StepSelectingDate    BookingStep = "selecting_date"
	StepSelectingTime    BookingStep = "selecting_time"
	StepEnteringDetails  BookingStep = "entering_details"
	StepConfirming       BookingStep = "confirming"
	StepPayingForSession BookingStep = "paying_for_session"
	StepCompleted        BookingStep = "completed"
	StepCancelled        BookingStep = "cancelled"
)

// IsTerminal returns true for completed and cancelled flows
func (s BookingStep) IsTerminal() bool {
	return s == StepCompleted || s == StepCancelled
}

// BookingDraft accumulates a mentee's choices between steps.
// Only its finalized form becomes a Session.
type BookingDraft struct {
	ID          string            `json:"id"`
	MentorID    int64             `json:"mentor_id"`
	MenteeID    int64             `json:"mentee_id"`
	Step        BookingStep       `json:"step"`
	Date        *time.Time        `json:"date,omitempty"`
	TimeSlot    *types.TimeString `json:"time_slot,omitempty"`
	Message     string            `json:"message"`
	SessionType string            `json:"session_type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Clone returns a deep copy
func (d *BookingDraft) Clone() *BookingDraft {
	c := *d
	if d.Date != nil {
		date := *d.Date
		c.Date = &date
	}
	if d.TimeSlot != nil {
		slot := *d.TimeSlot
		c.TimeSlot = &slot
	}
	return &c
}

// IsReadyForPayment returns true when date and slot are both chosen
func (d *BookingDraft) IsReadyForPayment() bool {
	return d.Date != nil && d.TimeSlot != nil
}
