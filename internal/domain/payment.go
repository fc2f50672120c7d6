package domain

import "time"

// PaymentMethod chosen at the payment step
type PaymentMethod string

const (
	PaymentCard      PaymentMethod = "card"
	PaymentCredits   PaymentMethod = "credits"
	PaymentSponsored PaymentMethod = "sponsored"
)

// AllPaymentMethods in display order
var AllPaymentMethods = []PaymentMethod{PaymentCard, PaymentCredits, PaymentSponsored}

// IsValid returns true for a known method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentCredits, PaymentSponsored:
		return true
	}
	return false
}

// Wallet platform credit balance of a user
type Wallet struct {
	UserID         int64
	BalanceCredits int64
	UpdatedAt      time.Time
}

// CohortMembership sponsorship programme membership
type CohortMembership struct {
	ID       int64
	UserID   int64
	CohortID int64
	IsActive bool
}

// FeeBreakdown split of a session fee between mentor and platform.
// MentorReceives + PlatformFee == SessionFee before rounding.
type FeeBreakdown struct {
	SessionFee            float64
	PlatformFeePercentage float64
	MentorReceives        float64
	PlatformFee           float64
}

// SessionPayment payment side effect recorded with a session
type SessionPayment struct {
	ID         int64
	SessionID  int64
	Method     PaymentMethod
	Amount     float64
	Credits    int64
	CohortID   *int64
	ExternalID *string
	CreatedAt  time.Time
}
