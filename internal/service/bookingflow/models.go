package bookingflow

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// StepInput ввод пользователя на текущем шаге.
// Используется только поле, относящееся к шагу; nil означает "оставить сохраненное значение".
type StepInput struct {
	Date        *time.Time
	TimeSlot    *types.TimeString
	Message     *string
	SessionType *string
	Proceed     bool // подтверждение на шаге confirming
}
