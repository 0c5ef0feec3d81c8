package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/nvoss/hearth/internal/config"
)

// RateLimit creates a middleware enforcing a process-wide token bucket over
// all API routes. Exceeding the budget returns 429 with the standard error
// envelope.
func RateLimit(cfg *config.RateLimitConfig) Middleware {
	if cfg == nil || cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
