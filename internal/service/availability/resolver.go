package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// Режимы учета существующих сессий
const (
	ConflictByDate = "date" // активная сессия закрывает весь день
	ConflictBySlot = "slot" // закрывается только слот с тем же временем начала
)

// schedule данные ментора, из которых разрешается доступность дат
type schedule struct {
	rules     map[time.Weekday]*domain.WeeklyAvailabilityRule
	overrides map[string]*domain.DateOverride
	sessions  []*domain.Session
}

func newSchedule(
	rules []*domain.WeeklyAvailabilityRule,
	overrides []*domain.DateOverride,
	sessions []*domain.Session,
) *schedule {
	s := &schedule{
		rules:     make(map[time.Weekday]*domain.WeeklyAvailabilityRule, len(rules)),
		overrides: make(map[string]*domain.DateOverride, len(overrides)),
		sessions:  sessions,
	}

	for _, r := range rules {
		// активное правило важнее неактивного на тот же день
		if existing, ok := s.rules[r.Weekday()]; ok && existing.IsActive {
			continue
		}
		s.rules[r.Weekday()] = r
	}

	// при дублях на одну дату побеждает закрывающая запись
	for _, o := range overrides {
		key := o.Date.Format(domain.DateFormat)
		if prev, ok := s.overrides[key]; ok && !prev.IsAvailable {
			continue
		}
		s.overrides[key] = o
	}

	return s
}

// hoursFor возвращает часы работы на дату и признак того, что дата открыта.
// Порядок проверки: исключение, затем недельное правило.
func (s *schedule) hoursFor(date time.Time) (domain.SlotHours, bool) {
	if o, ok := s.overrides[date.Format(domain.DateFormat)]; ok {
		if !o.IsAvailable {
			return domain.SlotHours{}, false
		}
		if h := o.Hours(); h != nil {
			return *h, true
		}
		return DefaultHours, true
	}

	rule, ok := s.rules[date.Weekday()]
	if !ok || !rule.IsActive {
		return domain.SlotHours{}, false
	}
	if h := rule.Hours(); h != nil {
		return *h, true
	}
	return DefaultHours, true
}

func (s *schedule) hasSessionOn(date time.Time, loc *time.Location) bool {
	for _, sess := range s.sessions {
		if sess.OccupiesDate(date, loc) {
			return true
		}
	}
	return false
}

func (s *schedule) slotTaken(date time.Time, slot types.TimeString, loc *time.Location) bool {
	for _, sess := range s.sessions {
		if sess.OccupiesSlot(date, slot, loc) {
			return true
		}
	}
	return false
}

// resolver чистая логика разрешения доступности, без обращения к хранилищу
type resolver struct {
	loc              *time.Location
	conflictMode     string
	minNoticeMinutes int
}

// resolveDay возвращает слоты, доступные на date. Пустой результат означает,
// что на дату записаться нельзя.
func (r resolver) resolveDay(sch *schedule, date, now time.Time) ([]domain.TimeSlot, error) {
	today := civilDate(now, r.loc)
	if date.Before(today) {
		return nil, nil
	}

	hours, open := sch.hoursFor(date)
	if !open {
		return nil, nil
	}

	if r.conflictMode != ConflictBySlot && sch.hasSessionOn(date, r.loc) {
		return nil, nil
	}

	catalogue, err := buildCatalogue(hours)
	if err != nil {
		return nil, fmt.Errorf("build catalogue for %s: %w", date.Format(domain.DateFormat), err)
	}

	// на сегодня отбрасываем слоты раньше now + minNotice
	earliest := -1
	if date.Equal(today) {
		local := now.In(r.loc)
		earliest = local.Hour()*60 + local.Minute() + r.minNoticeMinutes
	}

	slots := make([]domain.TimeSlot, 0, len(catalogue))
	for _, slot := range catalogue {
		if earliest >= 0 {
			start, err := slot.Start.Minutes()
			if err != nil || start < earliest {
				continue
			}
		}
		if r.conflictMode == ConflictBySlot && sch.slotTaken(date, slot.Start, r.loc) {
			continue
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// civilDate полночь календарной даты t в часовом поясе loc
func civilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// asCivilDate берет год, месяц и день из date без перевода часового пояса
func asCivilDate(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
