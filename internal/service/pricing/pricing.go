package pricing

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// ComputeFees делит стоимость сессии между ментором и платформой.
// MentorReceives вычисляется как остаток, поэтому сумма частей
// совпадает с sessionFee без потерь на округлении.
func ComputeFees(sessionFee, platformFeePercentage float64) (domain.FeeBreakdown, error) {
	if math.IsNaN(sessionFee) || math.IsInf(sessionFee, 0) || sessionFee < 0 {
		return domain.FeeBreakdown{}, fmt.Errorf("%w: sessionFee=%v", ErrInvalidFeeInput, sessionFee)
	}
	if math.IsNaN(platformFeePercentage) || platformFeePercentage < 0 || platformFeePercentage > 100 {
		return domain.FeeBreakdown{}, fmt.Errorf("%w: platformFeePercentage=%v", ErrInvalidFeeInput, platformFeePercentage)
	}

	platformFee := sessionFee * platformFeePercentage / 100

	return domain.FeeBreakdown{
		SessionFee:            sessionFee,
		PlatformFeePercentage: platformFeePercentage,
		PlatformFee:           platformFee,
		MentorReceives:        sessionFee - platformFee,
	}, nil
}

// ForMentor считает разбивку по цене ментора, подставляя значения по умолчанию
func ForMentor(m *domain.Mentor) (domain.FeeBreakdown, error) {
	return ComputeFees(m.EffectiveSessionFee(), m.EffectivePlatformFeePercentage())
}

// Rounded значения для отображения в целых единицах валюты.
// Доля ментора снова берется остатком, чтобы округление не создавало и не теряло деньги.
func Rounded(b domain.FeeBreakdown) domain.FeeBreakdown {
	fee := math.Round(b.SessionFee)
	platformFee := math.Round(b.PlatformFee)
	if platformFee > fee {
		platformFee = fee
	}

	return domain.FeeBreakdown{
		SessionFee:            fee,
		PlatformFeePercentage: b.PlatformFeePercentage,
		PlatformFee:           platformFee,
		MentorReceives:        fee - platformFee,
	}
}
