package bookingflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/service/availability"
)

// Machine переходы между шагами бронирования.
// Не хранит состояние: каждый метод возвращает новую копию черновика, исходный не меняется.
type Machine struct {
	validator    SlotValidator
	timeProvider TimeProvider
}

// NewMachine создает машину шагов бронирования
func NewMachine(validator SlotValidator, timeProvider TimeProvider) *Machine {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Machine{validator: validator, timeProvider: timeProvider}
}

// Advance переводит черновик на следующий шаг, если ввод шага корректен
func (m *Machine) Advance(ctx context.Context, draft *domain.BookingDraft, input StepInput) (*domain.BookingDraft, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: draft is required", ErrInvalidInput)
	}

	next := draft.Clone()

	switch draft.Step {
	case domain.StepSelectingDate:
		date := input.Date
		if date == nil {
			date = draft.Date
		}
		if date == nil || date.IsZero() {
			return nil, fmt.Errorf("%w: date is required", ErrStepValidation)
		}

		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		if err := m.validator.ValidateDate(ctx, draft.MentorID, day); err != nil {
			return nil, mapValidationError(err)
		}

		next.Date = &day
		next.Step = domain.StepSelectingTime

	case domain.StepSelectingTime:
		slot := input.TimeSlot
		if slot == nil {
			slot = draft.TimeSlot
		}
		if slot == nil || slot.IsZero() {
			return nil, fmt.Errorf("%w: time slot is required", ErrStepValidation)
		}
		if draft.Date == nil {
			return nil, fmt.Errorf("%w: date must be chosen before time slot", ErrStepValidation)
		}

		resolved, err := m.validator.ValidateSlot(ctx, draft.MentorID, *draft.Date, *slot)
		if err != nil {
			return nil, mapValidationError(err)
		}

		start := resolved.Start
		next.TimeSlot = &start
		next.Step = domain.StepEnteringDetails

	case domain.StepEnteringDetails:
		message := draft.Message
		if input.Message != nil {
			message = *input.Message
		}
		if utf8.RuneCountInString(message) > domain.MaxMessageLength {
			return nil, fmt.Errorf("%w: message must be at most %d characters", ErrStepValidation, domain.MaxMessageLength)
		}

		sessionType := draft.SessionType
		if input.SessionType != nil {
			sessionType = *input.SessionType
		}
		sessionType = strings.TrimSpace(sessionType)
		if sessionType == "" {
			sessionType = domain.DefaultSessionType
		}
		if utf8.RuneCountInString(sessionType) > domain.MaxSessionTypeLength {
			return nil, fmt.Errorf("%w: session type must be at most %d characters", ErrStepValidation, domain.MaxSessionTypeLength)
		}

		next.Message = message
		next.SessionType = sessionType
		next.Step = domain.StepConfirming

	case domain.StepConfirming:
		if !input.Proceed {
			return nil, fmt.Errorf("%w: confirmation is required to proceed to payment", ErrStepValidation)
		}
		next.Step = domain.StepPayingForSession

	default:
		// paying_for_session завершается только через Finalize
		return nil, fmt.Errorf("%w: cannot advance from %s", ErrInvalidTransition, draft.Step)
	}

	next.UpdatedAt = m.timeProvider.Now()
	return next, nil
}

// Back возвращает черновик на один шаг назад, сохраняя все введенные поля.
// На первом шаге возвращает копию без изменений.
func (m *Machine) Back(draft *domain.BookingDraft) (*domain.BookingDraft, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: draft is required", ErrInvalidInput)
	}

	next := draft.Clone()

	switch draft.Step {
	case domain.StepSelectingDate:
		return next, nil
	case domain.StepSelectingTime:
		next.Step = domain.StepSelectingDate
	case domain.StepEnteringDetails:
		next.Step = domain.StepSelectingTime
	case domain.StepConfirming:
		next.Step = domain.StepEnteringDetails
	case domain.StepPayingForSession:
		next.Step = domain.StepConfirming
	default:
		return nil, fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, draft.Step)
	}

	next.UpdatedAt = m.timeProvider.Now()
	return next, nil
}

// Cancel отменяет бронирование и очищает черновик. Повторная отмена ничего не меняет.
func (m *Machine) Cancel(draft *domain.BookingDraft) (*domain.BookingDraft, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: draft is required", ErrInvalidInput)
	}

	switch draft.Step {
	case domain.StepCancelled:
		return draft.Clone(), nil
	case domain.StepCompleted:
		return nil, fmt.Errorf("%w: flow is already completed", ErrInvalidTransition)
	}

	next := draft.Clone()
	next.Step = domain.StepCancelled
	next.Date = nil
	next.TimeSlot = nil
	next.Message = ""
	next.SessionType = ""
	next.UpdatedAt = m.timeProvider.Now()
	return next, nil
}

func mapValidationError(err error) error {
	switch {
	case errors.Is(err, availability.ErrMentorNotFound):
		return ErrMentorNotFound
	case errors.Is(err, availability.ErrDateNotBookable),
		errors.Is(err, availability.ErrSlotNotAvailable),
		errors.Is(err, availability.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrStepValidation, err)
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
