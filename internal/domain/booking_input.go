package domain

import (
	"strings"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

// BookingInput client supplied booking fields, used for creation and full updates
type BookingInput struct {
	Name            string  `field:"name" validate:"required,max=100"`
	Email           string  `field:"email" validate:"required,email,max=255"`
	Phone           string  `field:"phone" validate:"required,max=20"`
	Date            string  `field:"date" validate:"required"`
	Time            string  `field:"time" validate:"required"`
	Notes           *string `field:"notes" validate:"omitempty,max=1000"`
	AppointmentType string  `field:"appointmentType" validate:"omitempty,oneof=onsite remote"`
}

// Validate checks field rules, the date format and that the time is a slot start.
// On success it returns a booking without ID, number and timestamps.
func (in BookingInput) Validate(rules BookingRules) (*Booking, validation.Errors) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	errs := validation.Struct(in)

	date := types.DateString(in.Date)
	if in.Date != "" && date.Validate() != nil {
		errs.Add("date", "must be YYYY-MM-DD")
	}

	t := types.TimeString(in.Time)
	if in.Time != "" {
		if t.Validate() != nil {
			errs.Add("time", "must be HH:MM")
		} else if !rules.IsSlotBoundary(t) {
			errs.Add("time", "must be a slot start between "+rules.WindowStart.String()+" and "+rules.WindowEnd.String())
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	appointmentType := AppointmentType(in.AppointmentType)
	if appointmentType == "" {
		appointmentType = AppointmentOnsite
	}

	return &Booking{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Date:            date,
		Time:            t,
		Notes:           in.Notes,
		AppointmentType: appointmentType,
	}, nil
}
