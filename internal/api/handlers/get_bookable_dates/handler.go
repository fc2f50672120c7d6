package get_bookable_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MentorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MentorBooking/internal/service/availability"
)

const (
	msgInvalidMentorID    = "некорректный ID ментора"
	msgInvalidHorizonDays = "horizonDays должен быть положительным целым числом"
	msgMentorNotFound     = "ментор не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{mentorId}/bookable-dates
// Query params: horizonDays (optional, default 60)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := strconv.ParseInt(mux.Vars(r)["mentorId"], 10, 64)
	if err != nil || mentorID <= 0 {
		h.logger.Warn("GET /mentors/{id}/bookable-dates - Invalid mentor ID: %q", mux.Vars(r)["mentorId"])
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	horizonDays := h.service.DefaultHorizonDays()
	if raw := r.URL.Query().Get("horizonDays"); raw != "" {
		horizonDays, err = strconv.Atoi(raw)
		if err != nil || horizonDays <= 0 {
			h.logger.Warn("GET /mentors/{id}/bookable-dates - Invalid horizonDays: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidHorizonDays)
			return
		}
	}

	dates, err := h.service.BookableDates(r.Context(), mentorID, horizonDays)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrMentorNotFound):
			h.logger.Warn("GET /mentors/{id}/bookable-dates - Mentor not found: mentor_id=%d", mentorID)
			handlers.RespondNotFound(w, msgMentorNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /mentors/{id}/bookable-dates - Invalid input: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondBadRequest(w, msgInvalidHorizonDays)

		default:
			h.logger.Error("GET /mentors/{id}/bookable-dates - Failed to get dates: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Пустой список не ошибка: у ментора нет свободных дат
	h.logger.Info("GET /mentors/{id}/bookable-dates - Dates retrieved: mentor_id=%d, count=%d", mentorID, len(dates))
	handlers.RespondJSON(w, http.StatusOK, FromDates(mentorID, horizonDays, dates))
}
