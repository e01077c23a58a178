package clear_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
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

// Handle POST /api/v1/admin/bookings/clear
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Clear(r.Context())
	if err != nil {
		if errors.Is(err, bookings.ErrStoreUnavailable) {
			h.logger.Error("POST /admin/bookings/clear - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		h.logger.Error("POST /admin/bookings/clear - Failed to clear bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Warn("POST /admin/bookings/clear - Deleted %d bookings", result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
