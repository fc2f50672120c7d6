package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeSessionBooked задача уведомления ментора и менти о новой сессии
const TypeSessionBooked = "session:booked"

// SessionBooked полезная нагрузка задачи
type SessionBooked struct {
	SessionID     int64     `json:"session_id"`
	MentorID      int64     `json:"mentor_id"`
	MenteeID      int64     `json:"mentee_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	PaymentMethod string    `json:"payment_method"`
	Price         float64   `json:"price"`
}

// NewSessionBookedTask собирает задачу asynq
func NewSessionBookedTask(p SessionBooked) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshal, err)
	}
	return asynq.NewTask(TypeSessionBooked, payload), nil
}
