package availability

import (
	"fmt"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// DefaultHours каталог слотов для дней без собственных часов:
// 17:30, 17:45, 18:00, 18:15, 18:30, 18:45.
var DefaultHours = domain.SlotHours{
	Start:           types.MustTimeString("17:30"),
	End:             types.MustTimeString("19:00"),
	DurationMinutes: domain.DefaultSlotDurationMinutes,
}

// buildCatalogue нарезает [Start, End) на слоты фиксированной длины.
// Слот, не помещающийся целиком до End, не создается.
func buildCatalogue(hours domain.SlotHours) ([]domain.TimeSlot, error) {
	if hours.DurationMinutes < domain.MinSlotDurationMinutes || hours.DurationMinutes > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("slot duration %d out of range", hours.DurationMinutes)
	}

	start, err := hours.Start.Minutes()
	if err != nil {
		return nil, err
	}
	end, err := hours.End.Minutes()
	if err != nil {
		return nil, err
	}

	slots := make([]domain.TimeSlot, 0)
	for m := start; m+hours.DurationMinutes <= end; m += hours.DurationMinutes {
		ts := types.TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
		slots = append(slots, domain.TimeSlot{
			Start:           ts,
			DurationMinutes: hours.DurationMinutes,
			Band:            bandFor(m / 60),
		})
	}

	return slots, nil
}

// bandFor часовая группа для отображения, например "17:00–17:59"
func bandFor(hour int) string {
	return fmt.Sprintf("%02d:00–%02d:59", hour, hour)
}
