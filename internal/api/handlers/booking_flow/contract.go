package booking_flow

import (
	"context"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/service/bookingflow"
	"github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
)

type FlowService interface {
	Start(ctx context.Context, menteeID, mentorID int64) (*domain.BookingDraft, error)
	Get(ctx context.Context, flowID string, userID int64) (*domain.BookingDraft, error)
	Advance(ctx context.Context, flowID string, userID int64, input bookingflow.StepInput) (*domain.BookingDraft, error)
	Back(ctx context.Context, flowID string, userID int64) (*domain.BookingDraft, error)
	Cancel(ctx context.Context, flowID string, userID int64) error
	Finalize(ctx context.Context, flowID string, userID int64, method domain.PaymentMethod, cardToken string) (*finalize_booking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
