package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgRateLimited = "too many requests, try again later"

// RateLimitConfig параметры ограничения запросов с одного IP
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	MaxClients        int           // сколько IP помнить одновременно
	IdleTTL           time.Duration // через сколько забывать неактивный IP
	TrustForwarded    bool          // брать IP из X-Forwarded-For (за прокси)
}

type limiterStore struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, ok := s.limiters.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(s.limit, s.burst)
	s.limiters.Add(ip, limiter)
	return limiter
}

// RateLimit ограничивает частоту запросов с одного IP
func RateLimit(cfg RateLimitConfig, logger Logger) mux.MiddlewareFunc {
	store := &limiterStore{
		limiters: expirable.NewLRU[string, *rate.Limiter](cfg.MaxClients, nil, cfg.IdleTTL),
		limit:    rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute)),
		burst:    cfg.Burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, cfg.TrustForwarded)
			if !store.get(ip).Allow() {
				logger.Warn("%s %s - Rate limit exceeded: ip=%s", r.Method, r.URL.Path, ip)
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
