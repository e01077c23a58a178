package manage_schedule

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidID          = "invalid id"
	msgInvalidRequestBody = "invalid request body"
	msgWorkerNotFound     = "worker not found"
	msgAvailNotFound      = "availability rule not found"
	msgTimeOffNotFound    = "time off not found"
)

// Handler административные ручки расписания работников
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListWorkers GET /api/v1/admin/workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListWorkers(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/workers", err)
		return
	}

	h.logger.Info("GET /admin/workers - Workers retrieved successfully: count=%d", len(result.Workers))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateWorker POST /api/v1/admin/workers
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/workers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	worker, err := h.service.CreateWorker(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/workers", err)
		return
	}

	h.logger.Info("POST /admin/workers - Worker created successfully: worker_id=%s", worker.ID)
	handlers.RespondJSON(w, http.StatusCreated, worker)
}

// UpdateWorker PATCH /api/v1/admin/workers/{workerId}
func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	workerID, ok := h.pathID(w, r, "workerId", "PATCH /admin/workers/{id}")
	if !ok {
		return
	}

	var req models.UpdateWorkerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/workers/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	worker, err := h.service.UpdateWorker(r.Context(), workerID, &req)
	if err != nil {
		h.respondError(w, "PATCH /admin/workers/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/workers/{id} - Worker updated successfully: worker_id=%s", workerID)
	handlers.RespondJSON(w, http.StatusOK, worker)
}

// SetAvailability PUT /api/v1/admin/workers/{workerId}/availability
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	workerID, ok := h.pathID(w, r, "workerId", "PUT /admin/workers/{id}/availability")
	if !ok {
		return
	}

	var req models.SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/workers/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	availability, err := h.service.SetAvailability(r.Context(), workerID, &req)
	if err != nil {
		h.respondError(w, "PUT /admin/workers/{id}/availability", err)
		return
	}

	h.logger.Info("PUT /admin/workers/{id}/availability - Availability set: worker_id=%s, availability_id=%s",
		workerID, availability.ID)
	handlers.RespondJSON(w, http.StatusOK, availability)
}

// DeleteAvailability DELETE /api/v1/admin/availability/{availabilityId}
func (h *Handler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "availabilityId", "DELETE /admin/availability/{id}")
	if !ok {
		return
	}

	if err := h.service.DeleteAvailability(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/availability/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/availability/{id} - Availability deleted: availability_id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// AddTimeOff POST /api/v1/admin/workers/{workerId}/time-off
func (h *Handler) AddTimeOff(w http.ResponseWriter, r *http.Request) {
	workerID, ok := h.pathID(w, r, "workerId", "POST /admin/workers/{id}/time-off")
	if !ok {
		return
	}

	var req models.AddTimeOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/workers/{id}/time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	timeOff, err := h.service.AddTimeOff(r.Context(), workerID, &req)
	if err != nil {
		h.respondError(w, "POST /admin/workers/{id}/time-off", err)
		return
	}

	h.logger.Info("POST /admin/workers/{id}/time-off - Time off added: worker_id=%s, time_off_id=%s",
		workerID, timeOff.ID)
	handlers.RespondJSON(w, http.StatusCreated, timeOff)
}

// DeleteTimeOff DELETE /api/v1/admin/time-off/{timeOffId}
func (h *Handler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "timeOffId", "DELETE /admin/time-off/{id}")
	if !ok {
		return
	}

	if err := h.service.DeleteTimeOff(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/time-off/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/time-off/{id} - Time off deleted: time_off_id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name, route string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		h.logger.Warn("%s - Invalid %s: %v", route, name, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondValidationError(w, err)

	case errors.Is(err, schedule.ErrWorkerNotFound):
		h.logger.Warn("%s - Worker not found", route)
		handlers.RespondNotFound(w, msgWorkerNotFound)

	case errors.Is(err, schedule.ErrAvailabilityNotFound):
		h.logger.Warn("%s - Availability not found", route)
		handlers.RespondNotFound(w, msgAvailNotFound)

	case errors.Is(err, schedule.ErrTimeOffNotFound):
		h.logger.Warn("%s - Time off not found", route)
		handlers.RespondNotFound(w, msgTimeOffNotFound)

	case errors.Is(err, schedule.ErrStoreUnavailable):
		h.logger.Error("%s - Store unavailable: %v", route, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
