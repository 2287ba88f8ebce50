package middleware

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

// Throttle caps the total request rate through the wrapped handler with one
// shared token bucket. perMinute <= 0 disables it. Preflights are not counted.
func Throttle(perMinute, burst int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions && !limiter.Allow() {
				apierr.WriteStatus(w, http.StatusTooManyRequests, "Too many requests", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
