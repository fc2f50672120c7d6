package payments

import "errors"

var (
	// ErrIneligiblePaymentMethod возвращается, когда выбранный способ оплаты недоступен пользователю
	ErrIneligiblePaymentMethod = errors.New("payments: payment method is not eligible")

	// ErrMentorNotFound возвращается, когда ментор не найден
	ErrMentorNotFound = errors.New("payments: mentor not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")
)
