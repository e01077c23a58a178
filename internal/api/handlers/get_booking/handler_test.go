package get_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	booking *models.BookingResponse
	err     error
}

func (s stubService) GetByID(context.Context, uuid.UUID) (*models.BookingResponse, error) {
	return s.booking, s.err
}

func serve(svc BookingService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	id := uuid.New()

	rec := serve(stubService{booking: &models.BookingResponse{ID: id.String(), Number: "CC-ABC123"}}, id.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "CC-ABC123", body.Number)

	rec = serve(stubService{err: bookings.ErrBookingNotFound}, id.String())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(stubService{err: fmt.Errorf("%w: x", bookings.ErrStoreUnavailable)}, id.String())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(stubService{}, "42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
