package notifier

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Типы событий, они же routing key в topic exchange
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
)

// Event сообщение для внешнего отправителя email/SMS
type Event struct {
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurredAt"`
	Booking    BookingEvent `json:"booking"`
}

// BookingEvent данные бронирования в событии
type BookingEvent struct {
	ID              string  `json:"id"`
	Number          string  `json:"number"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Notes           *string `json:"notes,omitempty"`
	AppointmentType string  `json:"appointmentType"`
}

func newEvent(eventType string, b *domain.Booking, now time.Time) Event {
	return Event{
		Type:       eventType,
		OccurredAt: now.UTC(),
		Booking: BookingEvent{
			ID:              b.ID.String(),
			Number:          b.Number,
			Name:            b.Name,
			Email:           b.Email,
			Phone:           b.Phone,
			Date:            b.Date.String(),
			Time:            b.Time.String(),
			Notes:           b.Notes,
			AppointmentType: string(b.AppointmentType),
		},
	}
}
