package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

type stubUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc GetAvailableSlotsUseCase, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_OK(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date:  "2025-06-02",
		Slots: []types.TimeString{"09:00", "09:30"},
		Capacity: []domain.AvailableSlot{
			{StartTime: "09:00", Capacity: 2},
			{StartTime: "09:30", Capacity: 1},
		},
	}}

	rec := serve(uc, "/api/v1/available-slots?date=2025-06-02")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-06-02", uc.got.Date)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2025-06-02", body.Date)
	assert.Equal(t, []string{"09:00", "09:30"}, body.Slots)
	assert.Equal(t, []SlotCapacity{{Time: "09:00", Workers: 2}, {Time: "09:30", Workers: 1}}, body.Capacity)
}

func TestHandler_EmptyListIsNotNull(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{Date: "2025-06-01"}}

	rec := serve(uc, "/api/v1/available-slots?date=2025-06-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-06-01","slots":[],"capacity":[]}`, rec.Body.String())
}

func TestHandler_InvalidDate(t *testing.T) {
	var verrs validation.Errors
	verrs.Add("date", "must be YYYY-MM-DD")
	uc := &stubUseCase{err: fmt.Errorf("%w: %w", getAvailableSlots.ErrInvalidInput, verrs)}

	rec := serve(uc, "/api/v1/available-slots?date=2025-13-02")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation failed", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "date", body.Details[0].Field)
}

func TestHandler_StoreErrors(t *testing.T) {
	rec := serve(&stubUseCase{err: fmt.Errorf("%w: timeout", getAvailableSlots.ErrStoreUnavailable)},
		"/api/v1/available-slots?date=2025-06-02")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(&stubUseCase{err: fmt.Errorf("boom")}, "/api/v1/available-slots?date=2025-06-02")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
