package payments

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// CostInCredits число кредитов за сессию: ceil(sessionFee / CreditUnitValue)
func CostInCredits(sessionFee float64) int64 {
	if sessionFee <= 0 {
		return 0
	}
	// погрешность деления не должна добавлять лишний кредит (100 / 10 = 10, а не 11)
	return int64(math.Ceil(sessionFee/domain.CreditUnitValue - 1e-9))
}

// EligibleMethods способы оплаты, доступные пользователю.
// wallet == nil считается нулевым балансом.
func EligibleMethods(wallet *domain.Wallet, memberships []*domain.CohortMembership, sessionFee float64) []domain.PaymentMethod {
	methods := []domain.PaymentMethod{domain.PaymentCard}

	var balance int64
	if wallet != nil {
		balance = wallet.BalanceCredits
	}
	if balance >= CostInCredits(sessionFee) {
		methods = append(methods, domain.PaymentCredits)
	}

	if ActiveCohort(memberships) != nil {
		methods = append(methods, domain.PaymentSponsored)
	}

	return methods
}

// ActiveCohort первое активное членство или nil
func ActiveCohort(memberships []*domain.CohortMembership) *domain.CohortMembership {
	for _, m := range memberships {
		if m != nil && m.IsActive {
			return m
		}
	}
	return nil
}

// EnsureEligible отклоняет способ оплаты, которого нет в eligible.
// Подмена на другой способ не делается.
func EnsureEligible(method domain.PaymentMethod, eligible []domain.PaymentMethod) error {
	if !method.IsValid() {
		return fmt.Errorf("%w: unknown method %q", ErrIneligiblePaymentMethod, method)
	}
	for _, m := range eligible {
		if m == method {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIneligiblePaymentMethod, method)
}
