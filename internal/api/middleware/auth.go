package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgUnauthorized = "missing or invalid admin token"

// AdminAuth пропускает только запросы с заголовком Authorization: Bearer <token>
func AdminAuth(token string, logger Logger) mux.MiddlewareFunc {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			provided, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				logger.Warn("%s %s - Unauthorized admin request from %s", r.Method, r.URL.Path, r.RemoteAddr)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
