package bookingflow

import "errors"

var (
	// ErrStepValidation возвращается при некорректном вводе на шаге. Пользователь исправляет ввод и повторяет шаг.
	ErrStepValidation = errors.New("bookingflow: step validation failed")

	// ErrInvalidTransition возвращается, когда действие невозможно на текущем шаге
	ErrInvalidTransition = errors.New("bookingflow: invalid transition")

	// ErrFlowNotFound возвращается, когда черновик не найден или истек
	ErrFlowNotFound = errors.New("bookingflow: flow not found")

	// ErrAccessDenied возвращается, когда черновик принадлежит другому пользователю
	ErrAccessDenied = errors.New("bookingflow: access denied")

	// ErrMentorNotFound возвращается, когда ментор не найден
	ErrMentorNotFound = errors.New("bookingflow: mentor not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookingflow: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookingflow: internal error")
)
