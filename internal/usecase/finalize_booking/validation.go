package finalize_booking

import (
	"fmt"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil || req.Draft == nil {
		return fmt.Errorf("%w: draft is required", ErrInvalidInput)
	}

	if req.MentorID <= 0 {
		return fmt.Errorf("%w: mentor_id must be positive", ErrInvalidInput)
	}

	if req.MenteeID <= 0 {
		return fmt.Errorf("%w: mentee_id must be positive", ErrInvalidInput)
	}

	if req.Draft.MentorID != 0 && req.Draft.MentorID != req.MentorID {
		return fmt.Errorf("%w: draft belongs to mentor %d, not %d", ErrInvalidInput, req.Draft.MentorID, req.MentorID)
	}

	if !req.Draft.IsReadyForPayment() {
		return fmt.Errorf("%w: draft has no date or time slot", ErrInvalidInput)
	}

	if !req.Method.IsValid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.Method)
	}

	if req.Method == domain.PaymentCard && req.CardToken == "" {
		return fmt.Errorf("%w: card_token is required for card payment", ErrInvalidInput)
	}

	return nil
}
