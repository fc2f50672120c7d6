package finalize_booking

import "errors"

var (
	// ErrMentorNotFound возвращается, когда ментор не найден
	ErrMentorNotFound = errors.New("finalize_booking: mentor not found")

	// ErrIneligiblePaymentMethod возвращается, когда способ оплаты недоступен на момент коммита
	ErrIneligiblePaymentMethod = errors.New("finalize_booking: payment method is not eligible")

	// ErrSlotNoLongerAvailable возвращается, когда слот заняли или закрыли, пока пользователь проходил шаги
	ErrSlotNoLongerAvailable = errors.New("finalize_booking: slot is no longer available")

	// ErrInsufficientCredits возвращается, когда баланс уменьшился между выбором способа оплаты и коммитом
	ErrInsufficientCredits = errors.New("finalize_booking: insufficient credits")

	// ErrPaymentFailed возвращается, когда платеж картой отклонен
	ErrPaymentFailed = errors.New("finalize_booking: card payment failed")

	// ErrPaymentUnavailable возвращается, когда платежный шлюз не ответил. Можно повторить.
	ErrPaymentUnavailable = errors.New("finalize_booking: payment gateway unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("finalize_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("finalize_booking: internal error")
)
