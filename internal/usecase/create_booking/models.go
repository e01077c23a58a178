package create_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	domain.BookingInput
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}

// исходы приема бронирования для метрик
const (
	outcomeCreated     = "created"
	outcomeInvalid     = "invalid"
	outcomeTooSoon     = "too_soon"
	outcomeTaken       = "slot_taken"
	outcomeBlocked     = "slot_blocked"
	outcomeUnavailable = "unavailable"
)
