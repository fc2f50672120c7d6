package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	"github.com/m04kA/SMC-MentorBooking/pkg/retry"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// Options параметры разрешения доступности
type Options struct {
	Location           *time.Location
	ConflictMode       string
	DefaultHorizonDays int
	MaxHorizonDays     int
	MinNoticeMinutes   int
	Retry              retry.Policy
	Retries            RetryRecorder // может быть nil
}

// Service вычисляет доступные для записи даты и слоты ментора
type Service struct {
	mentorRepo       MentorRepository
	availabilityRepo AvailabilityRepository
	sessionRepo      SessionRepository
	timeProvider     TimeProvider
	resolver         resolver
	opts             Options
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	mentorRepo MentorRepository,
	availabilityRepo AvailabilityRepository,
	sessionRepo SessionRepository,
	timeProvider TimeProvider,
	opts Options,
	logger Logger,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ConflictMode == "" {
		opts.ConflictMode = ConflictByDate
	}
	if opts.MaxHorizonDays <= 0 {
		opts.MaxHorizonDays = domain.MaxHorizonDays
	}
	if opts.DefaultHorizonDays <= 0 {
		opts.DefaultHorizonDays = domain.DefaultHorizonDays
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &Service{
		mentorRepo:       mentorRepo,
		availabilityRepo: availabilityRepo,
		sessionRepo:      sessionRepo,
		timeProvider:     timeProvider,
		resolver: resolver{
			loc:              opts.Location,
			conflictMode:     opts.ConflictMode,
			minNoticeMinutes: opts.MinNoticeMinutes,
		},
		opts:   opts,
		logger: logger,
	}
}

// DefaultHorizonDays горизонт, используемый, когда клиент его не указал
func (s *Service) DefaultHorizonDays() int {
	return s.opts.DefaultHorizonDays
}

// Location часовой пояс календарных дат
func (s *Service) Location() *time.Location {
	return s.opts.Location
}

// BookableDates возвращает даты от сегодня до сегодня + horizonDays - 1, на которые можно записаться.
// Пустой список не ошибка: у ментора просто нет свободных дат.
func (s *Service) BookableDates(ctx context.Context, mentorID int64, horizonDays int) ([]time.Time, error) {
	s.logger.Info("BookableDates: mentor=%d, horizon=%d", mentorID, horizonDays)

	if mentorID <= 0 {
		return nil, fmt.Errorf("%w: mentorID must be positive", ErrInvalidInput)
	}
	if horizonDays <= 0 {
		return nil, fmt.Errorf("%w: horizonDays must be positive", ErrInvalidInput)
	}
	if horizonDays > s.opts.MaxHorizonDays {
		s.logger.Warn("BookableDates: horizon=%d clamped to %d", horizonDays, s.opts.MaxHorizonDays)
		horizonDays = s.opts.MaxHorizonDays
	}

	if err := s.ensureMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	today := civilDate(now, s.opts.Location)
	last := today.AddDate(0, 0, horizonDays-1)

	sch, err := s.loadSchedule(ctx, mentorID, today, last)
	if err != nil {
		s.logger.Error("BookableDates: failed to load schedule for mentor=%d: %v", mentorID, err)
		return nil, err
	}

	dates := make([]time.Time, 0)
	for d := today; !d.After(last); d = d.AddDate(0, 0, 1) {
		slots, err := s.resolver.resolveDay(sch, d, now)
		if err != nil {
			s.logger.Error("BookableDates: mentor=%d: %v", mentorID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if len(slots) > 0 {
			dates = append(dates, d)
		}
	}

	s.logger.Info("BookableDates: mentor=%d has %d bookable dates", mentorID, len(dates))
	return dates, nil
}

// TimeSlots возвращает слоты, доступные на date. Учитывается только календарная дата из date.
func (s *Service) TimeSlots(ctx context.Context, mentorID int64, date time.Time) ([]domain.TimeSlot, error) {
	if mentorID <= 0 {
		return nil, fmt.Errorf("%w: mentorID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	day := asCivilDate(date, s.opts.Location)
	s.logger.Info("TimeSlots: mentor=%d, date=%s", mentorID, day.Format(domain.DateFormat))

	if err := s.ensureMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	sch, err := s.loadSchedule(ctx, mentorID, day, day)
	if err != nil {
		s.logger.Error("TimeSlots: failed to load schedule for mentor=%d: %v", mentorID, err)
		return nil, err
	}

	slots, err := s.resolver.resolveDay(sch, day, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("TimeSlots: mentor=%d: %v", mentorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return slots, nil
}

// ValidateDate проверяет, что date входит в список доступных дат.
// Граница - максимальный горизонт: клиент мог запросить даты дальше горизонта по умолчанию.
func (s *Service) ValidateDate(ctx context.Context, mentorID int64, date time.Time) error {
	day := asCivilDate(date, s.opts.Location)
	today := civilDate(s.timeProvider.Now(), s.opts.Location)
	last := today.AddDate(0, 0, s.opts.MaxHorizonDays-1)

	if day.Before(today) || day.After(last) {
		return fmt.Errorf("%w: %s is outside the booking horizon", ErrDateNotBookable, day.Format(domain.DateFormat))
	}

	slots, err := s.TimeSlots(ctx, mentorID, day)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return fmt.Errorf("%w: %s", ErrDateNotBookable, day.Format(domain.DateFormat))
	}

	return nil
}

// ValidateSlot заново разрешает доступность даты и проверяет, что slot свободен.
// Внутри транзакции чтения сессий блокируют строки, поэтому проверка
// пригодна для compare-and-set перед созданием сессии.
func (s *Service) ValidateSlot(ctx context.Context, mentorID int64, date time.Time, slot types.TimeString) (domain.TimeSlot, error) {
	slot, err := types.NewTimeStringFromString(slot.String())
	if err != nil {
		return domain.TimeSlot{}, fmt.Errorf("%w: invalid time slot: %v", ErrInvalidInput, err)
	}

	slots, err := s.TimeSlots(ctx, mentorID, date)
	if err != nil {
		return domain.TimeSlot{}, err
	}
	if len(slots) == 0 {
		return domain.TimeSlot{}, fmt.Errorf("%w: %s", ErrDateNotBookable, date.Format(domain.DateFormat))
	}

	for _, candidate := range slots {
		if candidate.Start == slot {
			return candidate, nil
		}
	}

	return domain.TimeSlot{}, fmt.Errorf("%w: %s at %s", ErrSlotNotAvailable, date.Format(domain.DateFormat), slot)
}

// ScheduledAt момент начала слота на календарной дате в часовом поясе сервиса
func (s *Service) ScheduledAt(date time.Time, slot types.TimeString) (time.Time, error) {
	return slot.On(asCivilDate(date, s.opts.Location))
}

func (s *Service) ensureMentor(ctx context.Context, mentorID int64) error {
	_, err := retry.Read(ctx, s.policy("mentor"), func(ctx context.Context) (*domain.Mentor, error) {
		m, err := s.mentorRepo.GetByID(ctx, mentorID)
		if errors.Is(err, mentorRepo.ErrMentorNotFound) {
			return nil, retry.Permanent(err)
		}
		return m, err
	})
	if err != nil {
		if errors.Is(err, mentorRepo.ErrMentorNotFound) {
			s.logger.Warn("Availability: mentor id=%d not found", mentorID)
			return ErrMentorNotFound
		}
		s.logger.Error("Availability: failed to get mentor id=%d: %v", mentorID, err)
		return fmt.Errorf("%w: failed to get mentor: %w", ErrInternal, err)
	}
	return nil
}

// loadSchedule читает правила, исключения на [from, to] и активные сессии этих дат
func (s *Service) loadSchedule(ctx context.Context, mentorID int64, from, to time.Time) (*schedule, error) {
	rules, err := retry.Read(ctx, s.policy("weekly_rules"), func(ctx context.Context) ([]*domain.WeeklyAvailabilityRule, error) {
		return s.availabilityRepo.GetWeeklyRules(ctx, mentorID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get weekly rules: %w", ErrInternal, err)
	}

	overrides, err := retry.Read(ctx, s.policy("date_overrides"), func(ctx context.Context) ([]*domain.DateOverride, error) {
		return s.availabilityRepo.GetOverrides(ctx, mentorID, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get date overrides: %w", ErrInternal, err)
	}

	sessions, err := retry.Read(ctx, s.policy("active_sessions"), func(ctx context.Context) ([]*domain.Session, error) {
		return s.sessionRepo.ListActiveByMentor(ctx, mentorID, from, to.AddDate(0, 0, 1))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get sessions: %w", ErrInternal, err)
	}

	return newSchedule(rules, overrides, sessions), nil
}

func (s *Service) policy(operation string) retry.Policy {
	p := s.opts.Retry
	p.OnRetry = func(err error, wait time.Duration) {
		s.logger.Warn("Availability: retrying %s in %s: %v", operation, wait, err)
		if s.opts.Retries != nil {
			s.opts.Retries.RecordReadRetry(operation)
		}
	}
	return p
}
