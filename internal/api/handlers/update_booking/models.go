package update_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// UpdateBookingRequest HTTP request model, все поля бронирования заменяются
type UpdateBookingRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Notes           *string `json:"notes,omitempty"`
	AppointmentType string  `json:"appointmentType,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest() *models.UpdateBookingRequest {
	return &models.UpdateBookingRequest{BookingInput: domain.BookingInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Date:            r.Date,
		Time:            r.Time,
		Notes:           r.Notes,
		AppointmentType: r.AppointmentType,
	}}
}
