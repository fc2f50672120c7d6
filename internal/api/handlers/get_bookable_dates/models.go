package get_bookable_dates

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// BookableDatesResponse HTTP response model
type BookableDatesResponse struct {
	MentorID    int64    `json:"mentorId"`
	HorizonDays int      `json:"horizonDays"`
	Dates       []string `json:"dates"` // "2026-03-03"
}

// FromDates конвертирует список дат в HTTP response
func FromDates(mentorID int64, horizonDays int, dates []time.Time) *BookableDatesResponse {
	resp := &BookableDatesResponse{
		MentorID:    mentorID,
		HorizonDays: horizonDays,
		Dates:       make([]string, 0, len(dates)),
	}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.Format(domain.DateFormat))
	}
	return resp
}
