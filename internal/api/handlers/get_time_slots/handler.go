package get_time_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MentorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/service/availability"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMentorNotFound  = "ментор не найден"
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

// Handle GET /api/v1/mentors/{mentorId}/time-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := strconv.ParseInt(mux.Vars(r)["mentorId"], 10, 64)
	if err != nil || mentorID <= 0 {
		h.logger.Warn("GET /mentors/{id}/time-slots - Invalid mentor ID: %q", mux.Vars(r)["mentorId"])
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /mentors/{id}/time-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/time-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slots, err := h.service.TimeSlots(r.Context(), mentorID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrMentorNotFound):
			h.logger.Warn("GET /mentors/{id}/time-slots - Mentor not found: mentor_id=%d", mentorID)
			handlers.RespondNotFound(w, msgMentorNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /mentors/{id}/time-slots - Invalid input: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /mentors/{id}/time-slots - Failed to get slots: mentor_id=%d, date=%s, error=%v",
				mentorID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /mentors/{id}/time-slots - Slots retrieved: mentor_id=%d, date=%s, count=%d",
		mentorID, dateStr, len(slots))
	handlers.RespondJSON(w, http.StatusOK, FromSlots(mentorID, date, slots))
}
