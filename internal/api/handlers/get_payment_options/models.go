package get_payment_options

import "github.com/m04kA/SMC-MentorBooking/internal/service/payments"

// PaymentOptionsResponse HTTP response model
type PaymentOptionsResponse struct {
	MentorID              int64    `json:"mentorId"`
	SessionFee            float64  `json:"sessionFee"`
	PlatformFeePercentage float64  `json:"platformFeePercentage"`
	MentorReceives        float64  `json:"mentorReceives"`
	PlatformFee           float64  `json:"platformFee"`
	CostInCredits         int64    `json:"costInCredits"`
	BalanceCredits        int64    `json:"balanceCredits"`
	Methods               []string `json:"methods"`
}

// FromOptions конвертирует ответ сервиса в HTTP response
func FromOptions(mentorID int64, o *payments.Options) *PaymentOptionsResponse {
	methods := make([]string, 0, len(o.Methods))
	for _, m := range o.Methods {
		methods = append(methods, string(m))
	}

	return &PaymentOptionsResponse{
		MentorID:              mentorID,
		SessionFee:            o.Fees.SessionFee,
		PlatformFeePercentage: o.Fees.PlatformFeePercentage,
		MentorReceives:        o.Fees.MentorReceives,
		PlatformFee:           o.Fees.PlatformFee,
		CostInCredits:         o.CostInCredits,
		BalanceCredits:        o.BalanceCredits,
		Methods:               methods,
	}
}
