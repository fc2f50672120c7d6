package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

func TestCostInCredits(t *testing.T) {
	assert.Equal(t, int64(10), CostInCredits(100))
	assert.Equal(t, int64(11), CostInCredits(100.01))
	assert.Equal(t, int64(1), CostInCredits(0.5))
	assert.Equal(t, int64(0), CostInCredits(0))
	assert.Equal(t, int64(3), CostInCredits(30))
}

func TestEligibleMethods_NotEnoughCredits(t *testing.T) {
	methods := EligibleMethods(&domain.Wallet{BalanceCredits: 5}, nil, 100)

	assert.Equal(t, []domain.PaymentMethod{domain.PaymentCard}, methods)
}

func TestEligibleMethods_ExactBalance(t *testing.T) {
	methods := EligibleMethods(&domain.Wallet{BalanceCredits: 10}, nil, 100)

	assert.Contains(t, methods, domain.PaymentCredits)
}

func TestEligibleMethods_MissingWalletIsZero(t *testing.T) {
	assert.NotContains(t, EligibleMethods(nil, nil, 100), domain.PaymentCredits)
	assert.Contains(t, EligibleMethods(nil, nil, 0), domain.PaymentCredits)
}

func TestEligibleMethods_Sponsorship(t *testing.T) {
	inactive := []*domain.CohortMembership{{CohortID: 1, IsActive: false}}
	active := []*domain.CohortMembership{{CohortID: 1, IsActive: false}, {CohortID: 2, IsActive: true}}

	assert.NotContains(t, EligibleMethods(nil, inactive, 100), domain.PaymentSponsored)
	assert.Contains(t, EligibleMethods(nil, active, 100), domain.PaymentSponsored)
	assert.Equal(t, int64(2), ActiveCohort(active).CohortID)
}

func TestEnsureEligible(t *testing.T) {
	eligible := []domain.PaymentMethod{domain.PaymentCard}

	assert.NoError(t, EnsureEligible(domain.PaymentCard, eligible))
	assert.ErrorIs(t, EnsureEligible(domain.PaymentCredits, eligible), ErrIneligiblePaymentMethod)
	assert.ErrorIs(t, EnsureEligible("paypal", eligible), ErrIneligiblePaymentMethod)
}
