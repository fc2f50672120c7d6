package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	walletRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/wallet"
	"github.com/m04kA/SMC-MentorBooking/internal/service/pricing"
)

// Eligibility доступные способы оплаты вместе с данными, из которых они получены
type Eligibility struct {
	Methods        []domain.PaymentMethod
	CostInCredits  int64
	BalanceCredits int64
	ActiveCohort   *domain.CohortMembership
}

// Allows сообщает, доступен ли способ оплаты
func (e *Eligibility) Allows(method domain.PaymentMethod) bool {
	return EnsureEligible(method, e.Methods) == nil
}

// Options данные для шага оплаты
type Options struct {
	Fees           domain.FeeBreakdown // округленные для отображения
	CostInCredits  int64
	BalanceCredits int64
	Methods        []domain.PaymentMethod
}

// Service определяет доступные пользователю способы оплаты
type Service struct {
	walletRepo WalletRepository
	cohortRepo CohortRepository
	mentorRepo MentorRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса способов оплаты
func NewService(
	walletRepo WalletRepository,
	cohortRepo CohortRepository,
	mentorRepo MentorRepository,
	logger Logger,
) *Service {
	return &Service{
		walletRepo: walletRepo,
		cohortRepo: cohortRepo,
		mentorRepo: mentorRepo,
		logger:     logger,
	}
}

// EligibleMethods способы оплаты, доступные userID для сессии стоимостью sessionFee
func (s *Service) EligibleMethods(ctx context.Context, userID int64, sessionFee float64) ([]domain.PaymentMethod, error) {
	e, err := s.Eligibility(ctx, userID, sessionFee)
	if err != nil {
		return nil, err
	}
	return e.Methods, nil
}

// Eligibility читает кошелек и когорты пользователя и вычисляет доступные способы.
// Внутри транзакции читает через неё, поэтому результат согласован с последующим списанием.
func (s *Service) Eligibility(ctx context.Context, userID int64, sessionFee float64) (*Eligibility, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if sessionFee < 0 {
		return nil, fmt.Errorf("%w: sessionFee must not be negative", ErrInvalidInput)
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, walletRepo.ErrWalletNotFound) {
		s.logger.Error("Eligibility: failed to get wallet for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get wallet: %w", ErrInternal, err)
	}

	memberships, err := s.cohortRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Eligibility: failed to get cohorts for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get cohort memberships: %w", ErrInternal, err)
	}

	e := &Eligibility{
		Methods:       EligibleMethods(wallet, memberships, sessionFee),
		CostInCredits: CostInCredits(sessionFee),
		ActiveCohort:  ActiveCohort(memberships),
	}
	if wallet != nil {
		e.BalanceCredits = wallet.BalanceCredits
	}

	s.logger.Info("Eligibility: user=%d, fee=%.2f, credits=%d/%d, methods=%v",
		userID, sessionFee, e.BalanceCredits, e.CostInCredits, e.Methods)
	return e, nil
}

// Options собирает данные шага оплаты: разбивку цены ментора и доступные способы
func (s *Service) Options(ctx context.Context, userID, mentorID int64) (*Options, error) {
	m, err := s.mentorRepo.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, mentorRepo.ErrMentorNotFound) {
			s.logger.Warn("Options: mentor id=%d not found", mentorID)
			return nil, ErrMentorNotFound
		}
		s.logger.Error("Options: failed to get mentor id=%d: %v", mentorID, err)
		return nil, fmt.Errorf("%w: failed to get mentor: %v", ErrInternal, err)
	}

	fees, err := pricing.ForMentor(m)
	if err != nil {
		s.logger.Error("Options: mentor id=%d has invalid pricing: %v", mentorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	e, err := s.Eligibility(ctx, userID, fees.SessionFee)
	if err != nil {
		return nil, err
	}

	return &Options{
		Fees:           pricing.Rounded(fees),
		CostInCredits:  e.CostInCredits,
		BalanceCredits: e.BalanceCredits,
		Methods:        e.Methods,
	}, nil
}
