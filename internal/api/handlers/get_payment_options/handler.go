package get_payment_options

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MentorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MentorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MentorBooking/internal/service/payments"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgMentorNotFound  = "ментор не найден"
)

type Handler struct {
	service PaymentsService
	logger  Logger
}

func NewHandler(service PaymentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{mentorId}/payment-options
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := strconv.ParseInt(mux.Vars(r)["mentorId"], 10, 64)
	if err != nil || mentorID <= 0 {
		h.logger.Warn("GET /mentors/{id}/payment-options - Invalid mentor ID: %q", mux.Vars(r)["mentorId"])
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /mentors/{id}/payment-options - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	options, err := h.service.Options(r.Context(), userID, mentorID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrMentorNotFound):
			h.logger.Warn("GET /mentors/{id}/payment-options - Mentor not found: mentor_id=%d", mentorID)
			handlers.RespondNotFound(w, msgMentorNotFound)

		default:
			h.logger.Error("GET /mentors/{id}/payment-options - Failed to get options: mentor_id=%d, user_id=%d, error=%v",
				mentorID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /mentors/{id}/payment-options - Options retrieved: mentor_id=%d, user_id=%d, methods=%v",
		mentorID, userID, options.Methods)
	handlers.RespondJSON(w, http.StatusOK, FromOptions(mentorID, options))
}
