package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

func TestRespondValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	verrs := validation.Errors{{Field: "email", Message: "must be a valid email address"}}

	RespondValidationError(rec, fmt.Errorf("wrapped: %w", verrs))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, msgValidationFailed, body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "email", body.Details[0].Field)
}

func TestRespondConflict(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondConflict(rec, http.StatusConflict, "SlotTaken", "slot is already booked")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"slot is already booked","conflict":"SlotTaken"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Jane", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane","extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"} {}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	assert.Error(t, DecodeJSON(req, &dst))
}
