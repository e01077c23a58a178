package list_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

type stubService struct {
	got  *models.ListBookingsRequest
	resp *models.BookingListResponse
	err  error
}

func (s *stubService) List(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	return s.resp, s.err
}

func serve(svc BookingService, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	svc := &stubService{resp: &models.BookingListResponse{
		TimeSlots: []types.TimeString{"09:00", "09:30"},
		Bookings:  []models.BookingResponse{{Number: "CC-ABC123"}},
	}}

	rec := serve(svc, "/api/v1/admin/bookings?date=2025-06-02")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.Date)
	assert.Equal(t, "2025-06-02", *svc.got.Date)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.JSONEq(t, `["09:00","09:30"]`, string(body["timeSlots"]))
	assert.Contains(t, string(body["bookings"]), "CC-ABC123")
}

func TestHandler_NoFilter(t *testing.T) {
	svc := &stubService{resp: &models.BookingListResponse{}}

	rec := serve(svc, "/api/v1/admin/bookings")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.Date)
}

func TestHandler_Errors(t *testing.T) {
	verrs := validation.Errors{{Field: "date", Message: "must be YYYY-MM-DD"}}

	rec := serve(&stubService{err: fmt.Errorf("%w: %w", bookings.ErrInvalidInput, verrs)}, "/api/v1/admin/bookings?date=06/02")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"date"`)

	rec = serve(&stubService{err: fmt.Errorf("%w: down", bookings.ErrStoreUnavailable)}, "/api/v1/admin/bookings")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(&stubService{err: errors.New("boom")}, "/api/v1/admin/bookings")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
