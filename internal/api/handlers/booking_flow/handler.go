package booking_flow

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MentorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MentorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/service/bookingflow"
	"github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStepInput     = "некорректный формат даты (YYYY-MM-DD) или времени (HH:MM)"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgFlowNotFound         = "бронирование не найдено или истекло"
	msgForbidden            = "доступ запрещен"
	msgMentorNotFound       = "ментор не найден"
	msgStepValidation       = "некорректные данные шага"
	msgInvalidTransition    = "действие недоступно на текущем шаге"
	msgSlotNoLongerFree     = "выбранное время уже занято, выберите другую дату"
	msgIneligibleMethod     = "выбранный способ оплаты недоступен"
	msgInsufficientCredits  = "недостаточно кредитов, выберите другой способ оплаты"
	msgPaymentFailed        = "платеж отклонен, выберите другой способ оплаты"
	msgPaymentUnavailable   = "платежный сервис недоступен, попробуйте позже"
	msgInvalidFinalizeInput = "некорректные данные для оплаты"
)

type Handler struct {
	service FlowService
	logger  Logger
}

func NewHandler(service FlowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Start POST /api/v1/booking-flows
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "POST /booking-flows")
	if !ok {
		return
	}

	var req StartFlowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-flows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.service.Start(r.Context(), userID, req.MentorID)
	if err != nil {
		h.respondFlowError(w, "POST /booking-flows", err)
		return
	}

	h.logger.Info("POST /booking-flows - Flow started: flow_id=%s, user_id=%d, mentor_id=%d", draft.ID, userID, req.MentorID)
	handlers.RespondJSON(w, http.StatusCreated, FromDraft(draft))
}

// Get GET /api/v1/booking-flows/{flowId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "GET /booking-flows/{id}")
	if !ok {
		return
	}
	flowID := mux.Vars(r)["flowId"]

	draft, err := h.service.Get(r.Context(), flowID, userID)
	if err != nil {
		h.respondFlowError(w, "GET /booking-flows/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDraft(draft))
}

// Advance POST /api/v1/booking-flows/{flowId}/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "POST /booking-flows/{id}/advance")
	if !ok {
		return
	}
	flowID := mux.Vars(r)["flowId"]

	var req AdvanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-flows/{id}/advance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStepInput)
		return
	}

	input, err := req.ToStepInput()
	if err != nil {
		h.logger.Warn("POST /booking-flows/{id}/advance - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStepInput)
		return
	}

	draft, err := h.service.Advance(r.Context(), flowID, userID, input)
	if err != nil {
		h.respondFlowError(w, "POST /booking-flows/{id}/advance", err)
		return
	}

	h.logger.Info("POST /booking-flows/{id}/advance - Flow advanced: flow_id=%s, step=%s", flowID, draft.Step)
	handlers.RespondJSON(w, http.StatusOK, FromDraft(draft))
}

// Back POST /api/v1/booking-flows/{flowId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "POST /booking-flows/{id}/back")
	if !ok {
		return
	}
	flowID := mux.Vars(r)["flowId"]

	draft, err := h.service.Back(r.Context(), flowID, userID)
	if err != nil {
		h.respondFlowError(w, "POST /booking-flows/{id}/back", err)
		return
	}

	h.logger.Info("POST /booking-flows/{id}/back - Flow moved back: flow_id=%s, step=%s", flowID, draft.Step)
	handlers.RespondJSON(w, http.StatusOK, FromDraft(draft))
}

// Cancel DELETE /api/v1/booking-flows/{flowId}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "DELETE /booking-flows/{id}")
	if !ok {
		return
	}
	flowID := mux.Vars(r)["flowId"]

	if err := h.service.Cancel(r.Context(), flowID, userID); err != nil {
		h.respondFlowError(w, "DELETE /booking-flows/{id}", err)
		return
	}

	h.logger.Info("DELETE /booking-flows/{id} - Flow cancelled: flow_id=%s, user_id=%d", flowID, userID)
	handlers.RespondNoContent(w)
}

// Finalize POST /api/v1/booking-flows/{flowId}/finalize
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows/{id}/finalize"

	userID, ok := h.userID(w, r, op)
	if !ok {
		return
	}
	flowID := mux.Vars(r)["flowId"]

	var req FinalizeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidFinalizeInput)
		return
	}

	result, err := h.service.Finalize(r.Context(), flowID, userID, domain.PaymentMethod(req.PaymentMethod), req.CardToken)
	if err != nil {
		switch {
		case errors.Is(err, finalize_booking.ErrSlotNoLongerAvailable):
			h.logger.Warn("%s - Slot no longer available: flow_id=%s", op, flowID)
			handlers.RespondErrorWithAction(w, http.StatusConflict, msgSlotNoLongerFree, handlers.ActionPickDate)

		case errors.Is(err, finalize_booking.ErrIneligiblePaymentMethod):
			h.logger.Warn("%s - Ineligible payment method: flow_id=%s, method=%s", op, flowID, req.PaymentMethod)
			handlers.RespondErrorWithAction(w, http.StatusUnprocessableEntity, msgIneligibleMethod, handlers.ActionPickPaymentMethod)

		case errors.Is(err, finalize_booking.ErrInsufficientCredits):
			h.logger.Warn("%s - Insufficient credits: flow_id=%s", op, flowID)
			handlers.RespondErrorWithAction(w, http.StatusPaymentRequired, msgInsufficientCredits, handlers.ActionPickPaymentMethod)

		case errors.Is(err, finalize_booking.ErrPaymentFailed):
			h.logger.Warn("%s - Card payment declined: flow_id=%s", op, flowID)
			handlers.RespondErrorWithAction(w, http.StatusPaymentRequired, msgPaymentFailed, handlers.ActionPickPaymentMethod)

		case errors.Is(err, finalize_booking.ErrPaymentUnavailable):
			h.logger.Error("%s - Payment gateway unavailable: flow_id=%s, error=%v", op, flowID, err)
			handlers.RespondErrorWithAction(w, http.StatusServiceUnavailable, msgPaymentUnavailable, handlers.ActionRetry)

		case errors.Is(err, finalize_booking.ErrMentorNotFound):
			h.logger.Warn("%s - Mentor not found: flow_id=%s", op, flowID)
			handlers.RespondNotFound(w, msgMentorNotFound)

		case errors.Is(err, finalize_booking.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: flow_id=%s, error=%v", op, flowID, err)
			handlers.RespondBadRequest(w, msgInvalidFinalizeInput)

		default:
			h.respondFlowError(w, op, err)
		}
		return
	}

	h.logger.Info("%s - Session booked: flow_id=%s, session_id=%d, method=%s",
		op, flowID, result.Session.ID, result.Session.PaymentMethod)
	handlers.RespondJSON(w, http.StatusCreated, FromFinalizeResponse(result))
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
	}
	return userID, ok
}

func (h *Handler) respondFlowError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, bookingflow.ErrFlowNotFound):
		h.logger.Warn("%s - Flow not found", op)
		handlers.RespondNotFound(w, msgFlowNotFound)

	case errors.Is(err, bookingflow.ErrAccessDenied):
		h.logger.Warn("%s - Access denied", op)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, bookingflow.ErrMentorNotFound):
		h.logger.Warn("%s - Mentor not found", op)
		handlers.RespondNotFound(w, msgMentorNotFound)

	case errors.Is(err, bookingflow.ErrStepValidation):
		h.logger.Warn("%s - Step validation failed: %v", op, err)
		handlers.RespondBadRequest(w, stepValidationMessage(err))

	case errors.Is(err, bookingflow.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: %v", op, err)
		handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

	case errors.Is(err, bookingflow.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("%s - Internal error: %v", op, err)
		handlers.RespondInternalError(w)
	}
}

// stepValidationMessage добавляет к сообщению деталь ошибки шага
func stepValidationMessage(err error) string {
	detail := strings.TrimPrefix(err.Error(), bookingflow.ErrStepValidation.Error()+": ")
	if detail == err.Error() || detail == "" {
		return msgStepValidation
	}
	return fmt.Sprintf("%s: %s", msgStepValidation, detail)
}
