package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func serve(checks map[string]Check) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(checks, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := serve(nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(map[string]Check{"postgres": ok})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"ok"}}`, rec.Body.String())

	rec = serve(map[string]Check{"postgres": ok, "redis": down})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, rec.Body.String())
}
