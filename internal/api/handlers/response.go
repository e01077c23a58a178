// Package handlers holds the JSON helpers shared by every HTTP handler.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

const maxBodyBytes = 1 << 20

const (
	msgInternalError      = "internal server error"
	msgServiceUnavailable = "service temporarily unavailable"
	msgValidationFailed   = "validation failed"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error    string                 `json:"error"`
	Conflict string                 `json:"conflict,omitempty"`
	Details  []validation.FieldError `json:"details,omitempty"`
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondConflict пишет ошибку приема бронирования с машиночитаемым кодом
func RespondConflict(w http.ResponseWriter, status int, conflict, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message, Conflict: conflict})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondValidationError 400 со списком ошибок по полям.
// Если err не содержит validation.Errors, отдается только сообщение.
func RespondValidationError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgValidationFailed, Details: verrs})
		return
	}
	RespondBadRequest(w, msgValidationFailed)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, message)
}

func RespondServiceUnavailable(w http.ResponseWriter) {
	RespondError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON читает тело запроса в v, отклоняя неизвестные поля и лишние данные
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if decoder.More() {
		return errors.New("decode body: unexpected data after JSON object")
	}
	return nil
}
