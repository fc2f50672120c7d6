package booking_flow

import (
	"time"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
	"github.com/m04kA/SMC-MentorBooking/internal/service/bookingflow"
	"github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
	"github.com/m04kA/SMC-MentorBooking/pkg/types"
)

// StartFlowRequest HTTP request model
type StartFlowRequest struct {
	MentorID int64 `json:"mentorId" validate:"required,gt=0"`
}

// AdvanceRequest ввод текущего шага. Пустые поля означают "оставить сохраненное значение".
type AdvanceRequest struct {
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"` // "2026-03-03"
	TimeSlot    *string `json:"timeSlot,omitempty" validate:"omitempty,datetime=15:04"`  // "17:30"
	Message     *string `json:"message,omitempty"`
	SessionType *string `json:"sessionType,omitempty"`
	Proceed     bool    `json:"proceed"`
}

// FinalizeRequest HTTP request model
type FinalizeRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card credits sponsored"`
	CardToken     string `json:"cardToken,omitempty" validate:"required_if=PaymentMethod card"`
}

// FlowResponse HTTP response model
type FlowResponse struct {
	ID          string  `json:"id"`
	MentorID    int64   `json:"mentorId"`
	Step        string  `json:"step"`
	Date        *string `json:"date,omitempty"`
	TimeSlot    *string `json:"timeSlot,omitempty"`
	Message     string  `json:"message"`
	SessionType string  `json:"sessionType"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// SessionResponse HTTP response model
type SessionResponse struct {
	ID              int64   `json:"id"`
	MentorID        int64   `json:"mentorId"`
	MenteeID        int64   `json:"menteeId"`
	ScheduledAt     string  `json:"scheduledAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Price           float64 `json:"price"`
	PaymentMethod   string  `json:"paymentMethod"`
	Message         string  `json:"message"`
	SessionType     string  `json:"sessionType"`
	CreatedAt       string  `json:"createdAt"`
}

// PaymentResponse HTTP response model
type PaymentResponse struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Credits    int64   `json:"credits,omitempty"`
	CohortID   *int64  `json:"cohortId,omitempty"`
	ExternalID *string `json:"externalId,omitempty"`
}

// FeesResponse HTTP response model
type FeesResponse struct {
	SessionFee            float64 `json:"sessionFee"`
	PlatformFeePercentage float64 `json:"platformFeePercentage"`
	MentorReceives        float64 `json:"mentorReceives"`
	PlatformFee           float64 `json:"platformFee"`
}

// FinalizeResponse HTTP response model
type FinalizeResponse struct {
	Session SessionResponse `json:"session"`
	Payment PaymentResponse `json:"payment"`
	Fees    FeesResponse    `json:"fees"`
}

// ToStepInput конвертирует HTTP запрос в ввод шага
func (r *AdvanceRequest) ToStepInput() (bookingflow.StepInput, error) {
	input := bookingflow.StepInput{
		Message:     r.Message,
		SessionType: r.SessionType,
		Proceed:     r.Proceed,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return bookingflow.StepInput{}, err
		}
		input.Date = &date
	}

	if r.TimeSlot != nil {
		slot, err := types.NewTimeStringFromString(*r.TimeSlot)
		if err != nil {
			return bookingflow.StepInput{}, err
		}
		input.TimeSlot = &slot
	}

	return input, nil
}

// FromDraft конвертирует черновик в HTTP response
func FromDraft(d *domain.BookingDraft) *FlowResponse {
	resp := &FlowResponse{
		ID:          d.ID,
		MentorID:    d.MentorID,
		Step:        string(d.Step),
		Message:     d.Message,
		SessionType: d.SessionType,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
	if d.Date != nil {
		date := d.Date.Format(domain.DateFormat)
		resp.Date = &date
	}
	if d.TimeSlot != nil {
		slot := d.TimeSlot.String()
		resp.TimeSlot = &slot
	}
	return resp
}

// FromFinalizeResponse конвертирует ответ use case в HTTP response
func FromFinalizeResponse(r *finalize_booking.Response) *FinalizeResponse {
	s := r.Session
	resp := &FinalizeResponse{
		Session: SessionResponse{
			ID:              s.ID,
			MentorID:        s.MentorID,
			MenteeID:        s.MenteeID,
			ScheduledAt:     s.ScheduledAt.Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
			Status:          string(s.Status),
			Price:           s.Price,
			PaymentMethod:   string(s.PaymentMethod),
			Message:         s.Message,
			SessionType:     s.SessionType,
			CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		},
		Fees: FeesResponse{
			SessionFee:            r.Fees.SessionFee,
			PlatformFeePercentage: r.Fees.PlatformFeePercentage,
			MentorReceives:        r.Fees.MentorReceives,
			PlatformFee:           r.Fees.PlatformFee,
		},
	}
	if p := r.Payment; p != nil {
		resp.Payment = PaymentResponse{
			Method:     string(p.Method),
			Amount:     p.Amount,
			Credits:    p.Credits,
			CohortID:   p.CohortID,
			ExternalID: p.ExternalID,
		}
	}
	return resp
}
