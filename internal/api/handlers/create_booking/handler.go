package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// Коды конфликтов в теле ответа
const (
	ConflictSlotTaken   = "SlotTaken"
	ConflictSlotBlocked = "SlotBlocked"
	ConflictTooSoon     = "TooSoon"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgSlotTaken          = "this time slot is already booked"
	msgSlotBlocked        = "this time slot is too close to another appointment"
	msgTooSoon            = "appointments must be booked at least one day in advance"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, createBooking.ErrTooSoon):
			h.logger.Warn("POST /bookings - Too soon: date=%s", req.Date)
			handlers.RespondConflict(w, http.StatusUnprocessableEntity, ConflictTooSoon, msgTooSoon)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondConflict(w, http.StatusConflict, ConflictSlotTaken, msgSlotTaken)

		case errors.Is(err, createBooking.ErrSlotBlocked):
			h.logger.Warn("POST /bookings - Slot blocked: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondConflict(w, http.StatusConflict, ConflictSlotBlocked, msgSlotBlocked)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Store unavailable: date=%s, time=%s, error=%v", req.Date, req.Time, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: date=%s, time=%s, error=%v",
				req.Date, req.Time, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, number=%s",
		result.Booking.ID, result.Booking.Number)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
