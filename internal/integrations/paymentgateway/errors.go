package paymentgateway

import "errors"

var (
	// ErrDeclined карта отклонена или платеж требует действий, которые здесь не поддерживаются
	ErrDeclined = errors.New("paymentgateway: payment declined")

	// ErrUnavailable шлюз не ответил вовремя или недоступен. Пользователь может повторить попытку.
	ErrUnavailable = errors.New("paymentgateway: gateway unavailable")

	// ErrInvalidRequest некорректные параметры платежа
	ErrInvalidRequest = errors.New("paymentgateway: invalid request")

	// ErrIdempotencyConflict ключ идемпотентности уже использован с другими параметрами
	ErrIdempotencyConflict = errors.New("paymentgateway: idempotency key reused with different parameters")
)
