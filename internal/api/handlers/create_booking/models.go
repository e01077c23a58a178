package create_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Date            string  `json:"date"` // YYYY-MM-DD
	Time            string  `json:"time"` // HH:MM
	Notes           *string `json:"notes,omitempty"`
	AppointmentType string  `json:"appointmentType,omitempty"` // onsite | remote
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{BookingInput: domain.BookingInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Date:            r.Date,
		Time:            r.Time,
		Notes:           r.Notes,
		AppointmentType: r.AppointmentType,
	}}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{Booking: bookingModels.FromDomainBooking(resp.Booking)}
}
