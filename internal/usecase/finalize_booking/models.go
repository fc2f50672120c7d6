package finalize_booking

import "github.com/m04kA/SMC-MentorBooking/internal/domain"

// Request модель запроса на финализацию бронирования
type Request struct {
	Draft     *domain.BookingDraft // черновик с выбранными датой и временем
	MentorID  int64
	MenteeID  int64
	Method    domain.PaymentMethod
	CardToken string // ID платежного метода Stripe, только для card
}

// Response созданная сессия и запись об оплате
type Response struct {
	Session *domain.Session
	Payment *domain.SessionPayment
	Fees    domain.FeeBreakdown // округленные для отображения
}
