package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentType where the service is performed
type AppointmentType string

const (
	AppointmentOnsite AppointmentType = "onsite"
	AppointmentRemote AppointmentType = "remote"
)

func (t AppointmentType) IsValid() bool {
	return t == AppointmentOnsite || t == AppointmentRemote
}

// Booking represents a committed appointment.
// At most one booking occupies a given (Date, Time) pair.
type Booking struct {
	ID              uuid.UUID
	Number          string // human readable reference, e.g. CC-7K2M9Q
	Name            string
	Email           string
	Phone           string
	Date            types.DateString
	Time            types.TimeString
	Notes           *string
	AppointmentType AppointmentType

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAt returns true if the booking occupies the given slot
func (b *Booking) IsAt(date types.DateString, t types.TimeString) bool {
	return b.Date == date && b.Time == t
}

// BookingsFilter фильтр для административного списка бронирований
type BookingsFilter struct {
	StartDate *types.DateString // nil - без ограничения
	EndDate   *types.DateString // nil - без ограничения
}

// IsSingleDate returns true if the filter selects exactly one date
func (f BookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && *f.StartDate == *f.EndDate
}

// Matches reports whether b falls into the filter's date range
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.StartDate != nil && b.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && b.Date.After(*f.EndDate) {
		return false
	}
	return true
}
