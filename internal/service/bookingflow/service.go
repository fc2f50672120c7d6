package bookingflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	draftStore "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/draft"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	"github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
)

// Service ведет черновики бронирования в хранилище и применяет к ним переходы машины шагов
type Service struct {
	machine      *Machine
	drafts       DraftStore
	mentorRepo   MentorRepository
	finalizer    Finalizer
	transitions  TransitionRecorder
	timeProvider TimeProvider
	newID        func() string
	logger       Logger
}

// NewService создает новый экземпляр сервиса черновиков.
// transitions может быть nil.
func NewService(
	machine *Machine,
	drafts DraftStore,
	mentorRepo MentorRepository,
	finalizer Finalizer,
	transitions TransitionRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		machine:      machine,
		drafts:       drafts,
		mentorRepo:   mentorRepo,
		finalizer:    finalizer,
		transitions:  transitions,
		timeProvider: timeProvider,
		newID:        uuid.NewString,
		logger:       logger,
	}
}

// Start создает новый черновик на шаге выбора даты
func (s *Service) Start(ctx context.Context, menteeID, mentorID int64) (*domain.BookingDraft, error) {
	if menteeID <= 0 || mentorID <= 0 {
		return nil, fmt.Errorf("%w: mentee_id and mentor_id must be positive", ErrInvalidInput)
	}

	if _, err := s.mentorRepo.GetByID(ctx, mentorID); err != nil {
		if errors.Is(err, mentorRepo.ErrMentorNotFound) {
			s.logger.Warn("StartFlow: mentor id=%d not found", mentorID)
			return nil, ErrMentorNotFound
		}
		s.logger.Error("StartFlow: failed to get mentor id=%d: %v", mentorID, err)
		return nil, fmt.Errorf("%w: failed to get mentor: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	draft := &domain.BookingDraft{
		ID:          s.newID(),
		MentorID:    mentorID,
		MenteeID:    menteeID,
		Step:        domain.StepSelectingDate,
		SessionType: domain.DefaultSessionType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("StartFlow: flow=%s, mentee=%d, mentor=%d", draft.ID, menteeID, mentorID)
	return draft, nil
}

// Get возвращает черновик владельцу
func (s *Service) Get(ctx context.Context, flowID string, userID int64) (*domain.BookingDraft, error) {
	return s.load(ctx, flowID, userID)
}

// Advance применяет ввод шага и сохраняет черновик
func (s *Service) Advance(ctx context.Context, flowID string, userID int64, input StepInput) (*domain.BookingDraft, error) {
	draft, err := s.load(ctx, flowID, userID)
	if err != nil {
		return nil, err
	}

	next, err := s.machine.Advance(ctx, draft, input)
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("AdvanceFlow: flow=%s, step=%s: %v", flowID, draft.Step, err)
		} else {
			s.logger.Warn("AdvanceFlow: flow=%s, step=%s: %v", flowID, draft.Step, err)
		}
		return nil, err
	}

	if err := s.replace(ctx, next); err != nil {
		return nil, err
	}

	s.recordTransition(draft.Step, next.Step)
	s.logger.Info("AdvanceFlow: flow=%s, %s -> %s", flowID, draft.Step, next.Step)
	return next, nil
}

// Back возвращает черновик на шаг назад
func (s *Service) Back(ctx context.Context, flowID string, userID int64) (*domain.BookingDraft, error) {
	draft, err := s.load(ctx, flowID, userID)
	if err != nil {
		return nil, err
	}

	next, err := s.machine.Back(draft)
	if err != nil {
		s.logger.Warn("BackFlow: flow=%s: %v", flowID, err)
		return nil, err
	}

	if next.Step == draft.Step {
		return next, nil
	}

	if err := s.replace(ctx, next); err != nil {
		return nil, err
	}

	s.recordTransition(draft.Step, next.Step)
	s.logger.Info("BackFlow: flow=%s, %s -> %s", flowID, draft.Step, next.Step)
	return next, nil
}

// Cancel отменяет бронирование и удаляет черновик.
// Отмена уже удаленного черновика не ошибка.
func (s *Service) Cancel(ctx context.Context, flowID string, userID int64) error {
	draft, err := s.load(ctx, flowID, userID)
	if err != nil {
		if errors.Is(err, ErrFlowNotFound) {
			s.logger.Info("CancelFlow: flow=%s already gone", flowID)
			return nil
		}
		return err
	}

	cancelled, err := s.machine.Cancel(draft)
	if err != nil {
		s.logger.Warn("CancelFlow: flow=%s: %v", flowID, err)
		return err
	}

	if err := s.drafts.Delete(ctx, flowID); err != nil {
		s.logger.Error("CancelFlow: failed to delete flow=%s: %v", flowID, err)
		return fmt.Errorf("%w: failed to delete draft: %v", ErrInternal, err)
	}

	s.recordTransition(draft.Step, cancelled.Step)
	s.logger.Info("CancelFlow: flow=%s cancelled at step=%s", flowID, draft.Step)
	return nil
}

// Finalize фиксирует черновик на шаге оплаты.
// При успехе черновик удаляется; если слот заняли, черновик возвращается к выбору даты;
// при остальных ошибках черновик остается на шаге оплаты.
func (s *Service) Finalize(
	ctx context.Context,
	flowID string,
	userID int64,
	method domain.PaymentMethod,
	cardToken string,
) (*finalize_booking.Response, error) {
	draft, err := s.load(ctx, flowID, userID)
	if err != nil {
		return nil, err
	}

	if draft.Step != domain.StepPayingForSession {
		return nil, fmt.Errorf("%w: cannot finalize from %s", ErrInvalidTransition, draft.Step)
	}

	resp, err := s.finalizer.Execute(ctx, &finalize_booking.Request{
		Draft:     draft,
		MentorID:  draft.MentorID,
		MenteeID:  draft.MenteeID,
		Method:    method,
		CardToken: cardToken,
	})
	if err != nil {
		if errors.Is(err, finalize_booking.ErrSlotNoLongerAvailable) {
			s.resetToDateSelection(ctx, draft)
		}
		return nil, err
	}

	if err := s.drafts.Delete(ctx, flowID); err != nil {
		// сессия уже создана, черновик истечет по TTL
		s.logger.Warn("FinalizeFlow: failed to delete flow=%s: %v", flowID, err)
	}

	s.recordTransition(draft.Step, domain.StepCompleted)
	s.logger.Info("FinalizeFlow: flow=%s completed, session id=%d", flowID, resp.Session.ID)
	return resp, nil
}

func (s *Service) resetToDateSelection(ctx context.Context, draft *domain.BookingDraft) {
	next := draft.Clone()
	next.Date = nil
	next.TimeSlot = nil
	next.Step = domain.StepSelectingDate
	next.UpdatedAt = s.timeProvider.Now()

	// параллельная финализация могла завершиться и удалить черновик: не воскрешаем его
	if err := s.replace(ctx, next); err != nil {
		if errors.Is(err, ErrFlowNotFound) {
			s.logger.Info("FinalizeFlow: flow=%s already gone, not resetting", draft.ID)
			return
		}
		s.logger.Error("FinalizeFlow: failed to reset flow=%s to date selection: %v", draft.ID, err)
		return
	}

	s.recordTransition(draft.Step, next.Step)
	s.logger.Info("FinalizeFlow: flow=%s returned to %s, slot taken", draft.ID, next.Step)
}

func (s *Service) load(ctx context.Context, flowID string, userID int64) (*domain.BookingDraft, error) {
	if flowID == "" {
		return nil, fmt.Errorf("%w: flow id is required", ErrInvalidInput)
	}

	draft, err := s.drafts.Get(ctx, flowID)
	if err != nil {
		if errors.Is(err, draftStore.ErrDraftNotFound) {
			return nil, ErrFlowNotFound
		}
		s.logger.Error("BookingFlow: failed to get flow=%s: %v", flowID, err)
		return nil, fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
	}

	if draft.MenteeID != userID {
		s.logger.Warn("BookingFlow: user=%d tried to access flow=%s of user=%d", userID, flowID, draft.MenteeID)
		return nil, ErrAccessDenied
	}

	return draft, nil
}

func (s *Service) save(ctx context.Context, draft *domain.BookingDraft) error {
	if err := s.drafts.Save(ctx, draft); err != nil {
		s.logger.Error("BookingFlow: failed to save flow=%s: %v", draft.ID, err)
		return fmt.Errorf("%w: failed to save draft: %v", ErrInternal, err)
	}
	return nil
}

// replace сохраняет черновик, только если он еще существует
func (s *Service) replace(ctx context.Context, draft *domain.BookingDraft) error {
	if err := s.drafts.Replace(ctx, draft); err != nil {
		if errors.Is(err, draftStore.ErrDraftNotFound) {
			s.logger.Warn("BookingFlow: flow=%s expired or finished before save", draft.ID)
			return ErrFlowNotFound
		}
		s.logger.Error("BookingFlow: failed to save flow=%s: %v", draft.ID, err)
		return fmt.Errorf("%w: failed to save draft: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) recordTransition(from, to domain.BookingStep) {
	if s.transitions != nil {
		s.transitions.RecordTransition(string(from), string(to))
	}
}
