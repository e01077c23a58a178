package domain

// Default configuration values
const (
	DefaultWindowStart   = "09:00"
	DefaultWindowEnd     = "17:00"
	DefaultStepMinutes   = 30
	DefaultBlackoutSlots = 3 // 90 minutes of service after a booking
	DefaultLeadDays      = 1 // earliest bookable date is tomorrow
)

// Business validation constants
const (
	MaxNameLength   = 100
	MaxEmailLength  = 255
	MaxPhoneLength  = 20
	MaxNotesLength  = 1000
	MaxReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingNumberPrefix prefix of human readable booking references
const BookingNumberPrefix = "CC-"
