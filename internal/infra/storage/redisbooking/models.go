package redisbooking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// record представление бронирования в ключе booking:{id}
type record struct {
	ID              uuid.UUID        `json:"id"`
	Number          string           `json:"bookingNumber"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	Date            types.DateString `json:"date"`
	Time            types.TimeString `json:"time"`
	Notes           *string          `json:"notes,omitempty"`
	AppointmentType string           `json:"appointmentType"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func toRecord(b *domain.Booking) record {
	return record{
		ID:              b.ID,
		Number:          b.Number,
		Name:            b.Name,
		Email:           b.Email,
		Phone:           b.Phone,
		Date:            b.Date,
		Time:            b.Time,
		Notes:           b.Notes,
		AppointmentType: string(b.AppointmentType),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func decode(data []byte) (*domain.Booking, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &domain.Booking{
		ID:              rec.ID,
		Number:          rec.Number,
		Name:            rec.Name,
		Email:           rec.Email,
		Phone:           rec.Phone,
		Date:            rec.Date,
		Time:            rec.Time,
		Notes:           rec.Notes,
		AppointmentType: domain.AppointmentType(rec.AppointmentType),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}, nil
}
