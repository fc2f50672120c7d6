package domain

import "time"

// Mentor is the supplier side of a session. Fee fields are optional;
// pricing falls back to DefaultSessionFee and DefaultPlatformFeePercentage.
type Mentor struct {
	ID                    int64
	Name                  string
	SessionFee            *float64
	PlatformFeePercentage *float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// EffectiveSessionFee returns the mentor fee or the platform default
func (m *Mentor) EffectiveSessionFee() float64 {
	if m.SessionFee == nil {
		return DefaultSessionFee
	}
	return *m.SessionFee
}

// EffectivePlatformFeePercentage returns the mentor percentage or the platform default
func (m *Mentor) EffectivePlatformFeePercentage() float64 {
	if m.PlatformFeePercentage == nil {
		return DefaultPlatformFeePercentage
	}
	return *m.PlatformFeePercentage
}
