package domain

// Default studio configuration values
const (
	DefaultOpenTime                = "09:00"
	DefaultCloseTime               = "22:00"
	DefaultMaxMultiSlots           = 4
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultSessionTTLMinutes       = 120
)

// SlotDurationMinutes is the length of one bookable slot.
const SlotDurationMinutes = 60

// Business validation constants
const (
	MinMaxMultiSlots        = 2
	MaxMaxMultiSlots        = 12
	MaxAdvanceBookingDays   = 365 // 1 year
	MaxBookingNoticeMinutes = 10080
	MaxCustomerNameLength   = 200
	MaxCustomerPhoneLength  = 32
	MaxFailureReasonLength  = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
