package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidRules возвращается при некорректных правилах бронирования
var ErrInvalidRules = errors.New("domain: invalid booking rules")

// BookingRules global slot and admission parameters.
// They apply uniformly to every appointment type.
type BookingRules struct {
	WindowStart   types.TimeString
	WindowEnd     types.TimeString
	StepMinutes   int
	BlackoutSlots int // slots after a booking that cannot be booked, the booking's own slot included
	LeadDays      int
}

// DefaultBookingRules returns 09:00-17:00, 30 minute steps, 3 slot blackout, 1 day lead time
func DefaultBookingRules() BookingRules {
	return BookingRules{
		WindowStart:   DefaultWindowStart,
		WindowEnd:     DefaultWindowEnd,
		StepMinutes:   DefaultStepMinutes,
		BlackoutSlots: DefaultBlackoutSlots,
		LeadDays:      DefaultLeadDays,
	}
}

func (r BookingRules) Validate() error {
	if err := r.WindowStart.Validate(); err != nil {
		return fmt.Errorf("%w: window start: %v", ErrInvalidRules, err)
	}
	if err := r.WindowEnd.Validate(); err != nil {
		return fmt.Errorf("%w: window end: %v", ErrInvalidRules, err)
	}
	if !r.WindowStart.IsBefore(r.WindowEnd) {
		return fmt.Errorf("%w: window start %s must be before end %s", ErrInvalidRules, r.WindowStart, r.WindowEnd)
	}
	if r.StepMinutes <= 0 {
		return fmt.Errorf("%w: step must be positive", ErrInvalidRules)
	}
	if r.BlackoutSlots < 1 {
		return fmt.Errorf("%w: blackout must cover at least the booked slot", ErrInvalidRules)
	}
	if r.LeadDays < 0 {
		return fmt.Errorf("%w: lead days must not be negative", ErrInvalidRules)
	}
	return nil
}

// BlackoutMinutes length of the occupied span starting at a booking
func (r BookingRules) BlackoutMinutes() int {
	return r.BlackoutSlots * r.StepMinutes
}

// IsSlotBoundary returns true if t is a slot start inside the service window
func (r BookingRules) IsSlotBoundary(t types.TimeString) bool {
	if t.Validate() != nil || !t.InRange(r.WindowStart, r.WindowEnd) {
		return false
	}
	if t.Minutes()+r.StepMinutes > r.WindowEnd.Minutes() {
		return false
	}
	return (t.Minutes()-r.WindowStart.Minutes())%r.StepMinutes == 0
}

// EarliestBookableDate first date accepted for a booking when today is today
func (r BookingRules) EarliestBookableDate(today types.DateString) types.DateString {
	return today.AddDays(r.LeadDays)
}
