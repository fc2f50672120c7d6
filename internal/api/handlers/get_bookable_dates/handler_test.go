package get_bookable_dates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/internal/service/availability"
	"github.com/m04kA/SMC-MentorBooking/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) BookableDates(ctx context.Context, mentorID int64, horizonDays int) ([]time.Time, error) {
	args := m.Called(ctx, mentorID, horizonDays)
	if v := args.Get(0); v != nil {
		return v.([]time.Time), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) DefaultHorizonDays() int { return 60 }

func serve(svc AvailabilityService, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/mentors/{mentorId}/bookable-dates", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandle_DefaultHorizon(t *testing.T) {
	svc := &mockService{}
	svc.On("BookableDates", mock.Anything, int64(5), 60).
		Return([]time.Time{time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}, nil)

	rec := serve(svc, "/mentors/5/bookable-dates")
	require.Equal(t, http.StatusOK, rec.Code)

	var body BookableDatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"2026-03-03"}, body.Dates)
	assert.Equal(t, 60, body.HorizonDays)
}

func TestHandle_EmptyIsNotAnError(t *testing.T) {
	svc := &mockService{}
	svc.On("BookableDates", mock.Anything, int64(5), 7).Return([]time.Time{}, nil)

	rec := serve(svc, "/mentors/5/bookable-dates?horizonDays=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mentorId":5,"horizonDays":7,"dates":[]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("BookableDates", mock.Anything, int64(404), 60).Return(nil, availability.ErrMentorNotFound)

	assert.Equal(t, http.StatusNotFound, serve(svc, "/mentors/404/bookable-dates").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/mentors/abc/bookable-dates").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/mentors/5/bookable-dates?horizonDays=0").Code)
}
