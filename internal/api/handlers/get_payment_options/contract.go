package get_payment_options

import (
	"context"

	"github.com/m04kA/SMC-MentorBooking/internal/service/payments"
)

type PaymentsService interface {
	Options(ctx context.Context, userID, mentorID int64) (*payments.Options, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
