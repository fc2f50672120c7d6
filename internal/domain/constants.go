package domain

// Money defaults. Both affect what mentees pay, so they are fixed here
// and applied only when the mentor record leaves the field empty.
const (
	DefaultSessionFee            = 100.0
	DefaultPlatformFeePercentage = 25.0

	// CreditUnitValue currency units covered by one platform credit
	CreditUnitValue = 10.0
)

// Booking flow limits
const (
	MaxMessageLength     = 500
	MaxSessionTypeLength = 50
	DefaultSessionType   = "professional"
)

// Availability defaults
const (
	DefaultHorizonDays         = 60
	MaxHorizonDays             = 365
	DefaultSlotDurationMinutes = 15
	DefaultMinNoticeMinutes    = 60
	MinSlotDurationMinutes     = 5
	MaxSlotDurationMinutes     = 240
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a mentor's calendar
var ActiveStatuses = []SessionStatus{
	SessionPending,
	SessionConfirmed,
}
