package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const checkTimeout = 2 * time.Second

// Check проверка доступности зависимости
type Check func(ctx context.Context) error

type Logger interface {
	Warn(format string, v ...interface{})
}

// Response HTTP response model
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	checks map[string]Check
	logger Logger
}

func NewHandler(checks map[string]Check, logger Logger) *Handler {
	return &Handler{
		checks: checks,
		logger: logger,
	}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := Response{Status: "ok"}
	status := http.StatusOK
	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("GET /health - %s unavailable: %v", name, err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	handlers.RespondJSON(w, status, resp)
}
