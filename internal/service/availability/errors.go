package availability

import "errors"

var (
	// ErrMentorNotFound возвращается, когда ментор не найден
	ErrMentorNotFound = errors.New("availability: mentor not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrDateNotBookable возвращается, когда на дату нельзя записаться
	ErrDateNotBookable = errors.New("availability: date is not bookable")

	// ErrSlotNotAvailable возвращается, когда слот не входит в доступные на дату
	ErrSlotNotAvailable = errors.New("availability: time slot is not available")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
