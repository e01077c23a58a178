package redisbooking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	allBookingsKey   = "bookings:all"
	bookingKeyPrefix = "booking:"
)

func bookingKey(id uuid.UUID) string {
	return bookingKeyPrefix + id.String()
}

func dateKey(date types.DateString) string {
	return "bookings:date:" + date.String()
}

// slotKey хранит ID бронирования, занявшего (дату, время)
func slotKey(date types.DateString, t types.TimeString) string {
	return "bookings:slot:" + date.String() + ":" + t.String()
}

func lockKey(date types.DateString) string {
	return "bookings:lock:" + date.String()
}
