package get_payment_options

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/service/payments"
	"github.com/m04kA/SMC-MentorBooking/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) Options(ctx context.Context, userID, mentorID int64) (*payments.Options, error) {
	args := m.Called(ctx, userID, mentorID)
	if v := args.Get(0); v != nil {
		return v.(*payments.Options), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc PaymentsService, url, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/mentors/{mentorId}/payment-options", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("Options", mock.Anything, int64(9), int64(5)).Return(&payments.Options{
		Fees: domain.FeeBreakdown{
			SessionFee:            100,
			PlatformFeePercentage: 25,
			MentorReceives:        75,
			PlatformFee:           25,
		},
		CostInCredits:  10,
		BalanceCredits: 5,
		Methods:        []domain.PaymentMethod{domain.PaymentCard},
	}, nil)

	rec := serve(svc, "/mentors/5/payment-options", "9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"mentorId": 5,
		"sessionFee": 100,
		"platformFeePercentage": 25,
		"mentorReceives": 75,
		"platformFee": 25,
		"costInCredits": 10,
		"balanceCredits": 5,
		"methods": ["card"]
	}`, rec.Body.String())
}

func TestHandle_Unauthorized(t *testing.T) {
	rec := serve(&mockService{}, "/mentors/5/payment-options", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_MentorNotFound(t *testing.T) {
	svc := &mockService{}
	svc.On("Options", mock.Anything, int64(9), int64(404)).Return(nil, payments.ErrMentorNotFound)

	rec := serve(svc, "/mentors/404/payment-options", "9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
