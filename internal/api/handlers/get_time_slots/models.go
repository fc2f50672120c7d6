package get_time_slots

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// TimeSlotsResponse HTTP response model
type TimeSlotsResponse struct {
	MentorID int64          `json:"mentorId"`
	Date     string         `json:"date"`
	Bands    []BandResponse `json:"bands"`
}

// BandResponse слоты одного часа, например "17:00–17:59"
type BandResponse struct {
	Band  string         `json:"band"`
	Slots []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	Start           string `json:"start"` // "17:30"
	DurationMinutes int    `json:"durationMinutes"`
}

// FromSlots группирует слоты по полосам, сохраняя порядок
func FromSlots(mentorID int64, date time.Time, slots []domain.TimeSlot) *TimeSlotsResponse {
	resp := &TimeSlotsResponse{
		MentorID: mentorID,
		Date:     date.Format(domain.DateFormat),
		Bands:    make([]BandResponse, 0),
	}

	for _, s := range slots {
		n := len(resp.Bands)
		if n == 0 || resp.Bands[n-1].Band != s.Band {
			resp.Bands = append(resp.Bands, BandResponse{Band: s.Band})
			n++
		}
		resp.Bands[n-1].Slots = append(resp.Bands[n-1].Slots, SlotResponse{
			Start:           s.Start.String(),
			DurationMinutes: s.DurationMinutes,
		})
	}

	return resp
}
