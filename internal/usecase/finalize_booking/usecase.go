package finalize_booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	walletRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/wallet"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-MentorBooking/internal/service/availability"
	"github.com/m04kA/SMC-MentorBooking/internal/service/payments"
	"github.com/m04kA/SMC-MentorBooking/internal/service/pricing"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

const afterCommitTimeout = 5 * time.Second

// Метки результата для метрик
const (
	resultSuccess            = "success"
	resultIneligible         = "ineligible_method"
	resultSlotUnavailable    = "slot_unavailable"
	resultInsufficient       = "insufficient_credits"
	resultPaymentFailed      = "payment_failed"
	resultPaymentUnavailable = "payment_unavailable"
	resultInvalid            = "invalid_input"
	resultError              = "error"
)

// UseCase use case финализации бронирования: сессия и оплата фиксируются атомарно
type UseCase struct {
	mentorRepo   MentorRepository
	sessionRepo  SessionRepository
	walletRepo   WalletRepository
	paymentRepo  PaymentRepository
	availability AvailabilityChecker
	eligibility  EligibilityChecker
	gateway      PaymentGateway
	notifier     Notifier
	txManager    TransactionManager
	metrics      MetricsRecorder
	currency     string
	logger       Logger

	newAttemptID func() string
}

// NewUseCase создает новый экземпляр use case.
// notifier может быть nil, если уведомления выключены.
func NewUseCase(
	mentorRepo MentorRepository,
	sessionRepo SessionRepository,
	walletRepo WalletRepository,
	paymentRepo PaymentRepository,
	availability AvailabilityChecker,
	eligibility EligibilityChecker,
	gateway PaymentGateway,
	notifier Notifier,
	txManager TransactionManager,
	metrics MetricsRecorder,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		mentorRepo:   mentorRepo,
		sessionRepo:  sessionRepo,
		walletRepo:   walletRepo,
		paymentRepo:  paymentRepo,
		availability: availability,
		eligibility:  eligibility,
		gateway:      gateway,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		currency:     currency,
		logger:       logger,
		newAttemptID: uuid.NewString,
	}
}

// Execute фиксирует черновик как сессию со статусом pending и применяет способ оплаты.
// Все проверки повторяются внутри сериализуемой транзакции: результаты прошлых шагов могли устареть.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FinalizeBooking: validation failed: %v", err)
		uc.record(req, resultInvalid)
		return nil, err
	}

	uc.logger.Info("FinalizeBooking: flow=%s, mentor=%d, mentee=%d, date=%s, time=%s, method=%s",
		req.Draft.ID, req.MentorID, req.MenteeID, req.Draft.Date.Format(domain.DateFormat), *req.Draft.TimeSlot, req.Method)

	var (
		result  *Response
		charged *paymentgateway.ChargeResult
	)

	// Ключ идемпотентности уникален для попытки, а не для черновика
	attemptID := uc.newAttemptID()
	uc.logger.Info("FinalizeBooking: flow=%s, attempt=%s", req.Draft.ID, attemptID)

	// 2. Сессия и побочный эффект оплаты в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		charged = nil

		// 2.1. Получаем ментора и считаем стоимость
		mentor, err := uc.mentorRepo.GetByID(txCtx, req.MentorID)
		if err != nil {
			if errors.Is(err, mentorRepo.ErrMentorNotFound) {
				return ErrMentorNotFound
			}
			return fmt.Errorf("%w: failed to get mentor: %w", ErrInternal, err)
		}

		fees, err := pricing.ForMentor(mentor)
		if err != nil {
			return fmt.Errorf("%w: invalid mentor pricing: %v", ErrInternal, err)
		}

		// 2.2. Пересчитываем доступные способы оплаты, выбор со страницы оплаты не доверяем
		eligibility, err := uc.eligibility.Eligibility(txCtx, req.MenteeID, fees.SessionFee)
		if err != nil {
			return fmt.Errorf("%w: failed to compute eligibility: %w", ErrInternal, err)
		}
		if err := payments.EnsureEligible(req.Method, eligibility.Methods); err != nil {
			return fmt.Errorf("%w: %w", ErrIneligiblePaymentMethod, err)
		}

		// 2.3. Повторная проверка слота (сессии ментора читаются FOR UPDATE)
		slot, err := uc.availability.ValidateSlot(txCtx, req.MentorID, *req.Draft.Date, *req.Draft.TimeSlot)
		if err != nil {
			return mapAvailabilityError(err)
		}

		scheduledAt, err := uc.availability.ScheduledAt(*req.Draft.Date, slot.Start)
		if err != nil {
			return fmt.Errorf("%w: failed to compute scheduled_at: %v", ErrInternal, err)
		}

		// 2.4. Создаем сессию
		price := fees.SessionFee
		if req.Method == domain.PaymentSponsored {
			price = 0
		}

		session, err := uc.sessionRepo.Create(txCtx, &domain.Session{
			MentorID:        req.MentorID,
			MenteeID:        req.MenteeID,
			ScheduledAt:     scheduledAt,
			DurationMinutes: slot.DurationMinutes,
			Status:          domain.SessionPending,
			Price:           price,
			PaymentMethod:   req.Method,
			Message:         req.Draft.Message,
			SessionType:     req.Draft.SessionType,
		})
		if err != nil {
			if errors.Is(err, txmanager.ErrConflict) {
				return fmt.Errorf("%w: %v", ErrSlotNoLongerAvailable, err)
			}
			return fmt.Errorf("%w: failed to create session: %w", ErrInternal, err)
		}

		// 2.5. Побочный эффект выбранного способа оплаты
		payment := &domain.SessionPayment{
			SessionID: session.ID,
			Method:    req.Method,
			Amount:    price,
		}

		switch req.Method {
		case domain.PaymentCredits:
			payment.Credits = eligibility.CostInCredits
			if _, err := uc.walletRepo.DeductCredits(txCtx, req.MenteeID, eligibility.CostInCredits, session.ID); err != nil {
				if errors.Is(err, walletRepo.ErrInsufficientCredits) {
					return fmt.Errorf("%w: need %d credits", ErrInsufficientCredits, eligibility.CostInCredits)
				}
				return fmt.Errorf("%w: failed to deduct credits: %w", ErrInternal, err)
			}

		case domain.PaymentCard:
			// бесплатная сессия: в минимальных единицах валюты списывать нечего
			if math.Round(price*100) <= 0 {
				break
			}
			res, err := uc.gateway.Charge(txCtx, paymentgateway.ChargeRequest{
				Amount:         price,
				Currency:       uc.currency,
				CardToken:      req.CardToken,
				IdempotencyKey: req.Draft.ID + ":" + attemptID,
				Description:    fmt.Sprintf("Mentor session #%d", session.ID),
				Metadata: map[string]string{
					"session_id": strconv.FormatInt(session.ID, 10),
					"mentor_id":  strconv.FormatInt(req.MentorID, 10),
					"mentee_id":  strconv.FormatInt(req.MenteeID, 10),
					"flow_id":    req.Draft.ID,
					"attempt_id": attemptID,
				},
			})
			if err != nil {
				return mapGatewayError(err)
			}
			charged = res
			payment.ExternalID = &res.ID

		case domain.PaymentSponsored:
			cohortID := eligibility.ActiveCohort.CohortID
			payment.CohortID = &cohortID
		}

		// 2.6. Запись об оплате: без неё сессия не существует
		payment, err = uc.paymentRepo.Create(txCtx, payment)
		if err != nil {
			return fmt.Errorf("%w: failed to create payment record: %w", ErrInternal, err)
		}

		result = &Response{
			Session: session,
			Payment: payment,
			Fees:    pricing.Rounded(fees),
		}
		return nil
	})

	if err != nil {
		// 3. Конфликт сериализации на любом шаге означает параллельную финализацию
		if errors.Is(err, txmanager.ErrConflict) {
			err = fmt.Errorf("%w: %v", ErrSlotNoLongerAvailable, err)
		}

		// 4. Деньги списаны, а сессия не сохранилась: возвращаем платеж
		if charged != nil {
			uc.refund(ctx, charged.ID)
		}

		uc.logFailure(req, err)
		uc.record(req, resultFor(err))
		return nil, err
	}

	uc.logger.Info("FinalizeBooking: created session id=%d, mentor=%d, mentee=%d, scheduled_at=%s, method=%s, price=%.2f",
		result.Session.ID, result.Session.MentorID, result.Session.MenteeID,
		result.Session.ScheduledAt.Format(time.RFC3339), result.Session.PaymentMethod, result.Session.Price)

	// 5. Уведомление после коммита, ошибка не влияет на результат
	uc.notify(ctx, result.Session)
	uc.record(req, resultSuccess)

	return result, nil
}

func (uc *UseCase) refund(ctx context.Context, chargeID string) {
	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	if err := uc.gateway.Refund(refundCtx, chargeID); err != nil {
		uc.logger.Error("FinalizeBooking: failed to refund charge id=%s after rollback: %v", chargeID, err)
		return
	}
	uc.logger.Warn("FinalizeBooking: refunded charge id=%s after rollback", chargeID)
}

func (uc *UseCase) notify(ctx context.Context, s *domain.Session) {
	if uc.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	err := uc.notifier.SessionBooked(notifyCtx, notifier.SessionBooked{
		SessionID:     s.ID,
		MentorID:      s.MentorID,
		MenteeID:      s.MenteeID,
		ScheduledAt:   s.ScheduledAt,
		PaymentMethod: string(s.PaymentMethod),
		Price:         s.Price,
	})
	if err != nil {
		uc.logger.Warn("FinalizeBooking: notification for session id=%d not enqueued: %v", s.ID, err)
	}
}

func (uc *UseCase) logFailure(req *Request, err error) {
	switch {
	case errors.Is(err, ErrInternal), errors.Is(err, ErrPaymentUnavailable):
		uc.logger.Error("FinalizeBooking: flow=%s, mentor=%d, mentee=%d: %v", req.Draft.ID, req.MentorID, req.MenteeID, err)
	default:
		uc.logger.Warn("FinalizeBooking: flow=%s, mentor=%d, mentee=%d: %v", req.Draft.ID, req.MentorID, req.MenteeID, err)
	}
}

func (uc *UseCase) record(req *Request, result string) {
	if uc.metrics == nil {
		return
	}
	method := "unknown"
	if req != nil && req.Method.IsValid() {
		method = string(req.Method)
	}
	uc.metrics.RecordFinalize(method, result)
}

func mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, availability.ErrDateNotBookable), errors.Is(err, availability.ErrSlotNotAvailable):
		return fmt.Errorf("%w: %v", ErrSlotNoLongerAvailable, err)
	case errors.Is(err, availability.ErrMentorNotFound):
		return ErrMentorNotFound
	case errors.Is(err, availability.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: failed to validate slot: %w", ErrInternal, err)
}

func mapGatewayError(err error) error {
	switch {
	case errors.Is(err, paymentgateway.ErrDeclined), errors.Is(err, paymentgateway.ErrInvalidRequest):
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	case errors.Is(err, paymentgateway.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	case errors.Is(err, paymentgateway.ErrIdempotencyConflict):
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, ErrIneligiblePaymentMethod):
		return resultIneligible
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return resultSlotUnavailable
	case errors.Is(err, ErrInsufficientCredits):
		return resultInsufficient
	case errors.Is(err, ErrPaymentFailed):
		return resultPaymentFailed
	case errors.Is(err, ErrPaymentUnavailable):
		return resultPaymentUnavailable
	case errors.Is(err, ErrInvalidInput):
		return resultInvalid
	}
	return resultError
}
