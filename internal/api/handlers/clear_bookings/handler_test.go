package clear_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	resp *models.ClearResponse
	err  error
}

func (s stubService) Clear(context.Context) (*models.ClearResponse, error) {
	return s.resp, s.err
}

func serve(svc BookingService) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/clear", nil)
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	rec := serve(stubService{resp: &models.ClearResponse{Deleted: 3}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":3}`, rec.Body.String())

	rec = serve(stubService{err: fmt.Errorf("%w: down", bookings.ErrStoreUnavailable)})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
