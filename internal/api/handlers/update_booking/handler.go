package update_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgSlotTaken          = "this time slot is already booked"
	msgSlotBlocked        = "this time slot is too close to another appointment"
	msgTooSoon            = "appointments must be booked at least one day in advance"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PUT /admin/bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Update(r.Context(), bookingID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PUT /admin/bookings/{id} - Validation failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /admin/bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrTooSoon):
			h.logger.Warn("PUT /admin/bookings/{id} - Too soon: booking_id=%s, date=%s", bookingID, req.Date)
			handlers.RespondConflict(w, http.StatusUnprocessableEntity, createBookingHandler.ConflictTooSoon, msgTooSoon)

		case errors.Is(err, bookings.ErrSlotTaken):
			h.logger.Warn("PUT /admin/bookings/{id} - Slot taken: booking_id=%s, %s %s", bookingID, req.Date, req.Time)
			handlers.RespondConflict(w, http.StatusConflict, createBookingHandler.ConflictSlotTaken, msgSlotTaken)

		case errors.Is(err, bookings.ErrSlotBlocked):
			h.logger.Warn("PUT /admin/bookings/{id} - Slot blocked: booking_id=%s, %s %s", bookingID, req.Date, req.Time)
			handlers.RespondConflict(w, http.StatusConflict, createBookingHandler.ConflictSlotBlocked, msgSlotBlocked)

		case errors.Is(err, bookings.ErrStoreUnavailable):
			h.logger.Error("PUT /admin/bookings/{id} - Store unavailable: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /admin/bookings/{id} - Failed to update booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/bookings/{id} - Booking updated successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
