package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// ListBookingsRequest запрос административного списка бронирований
type ListBookingsRequest struct {
	Date *string // Фильтр по дате YYYY-MM-DD (опционально)
}

// UpdateBookingRequest полное обновление бронирования
type UpdateBookingRequest struct {
	domain.BookingInput
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string  `json:"id"`
	Number          string  `json:"number"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Date            string  `json:"date"` // "2025-06-02"
	Time            string  `json:"time"` // "10:00"
	Notes           *string `json:"notes,omitempty"`
	AppointmentType string  `json:"appointmentType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований и сеткой слотов
type BookingListResponse struct {
	TimeSlots []types.TimeString `json:"timeSlots"`
	Bookings  []BookingResponse  `json:"bookings"`
}

// ClearResponse ответ на удаление всех бронирований
type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID.String(),
		Number:          b.Number,
		Name:            b.Name,
		Email:           b.Email,
		Phone:           b.Phone,
		Date:            b.Date.String(),
		Time:            b.Time.String(),
		Notes:           b.Notes,
		AppointmentType: string(b.AppointmentType),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(timeSlots []types.TimeString, bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		TimeSlots: timeSlots,
		Bookings:  make([]BookingResponse, 0, len(bookings)),
	}
	if resp.TimeSlots == nil {
		resp.TimeSlots = []types.TimeString{}
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
