package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// Recover turns a panic into a 500 JSON error. The stack goes to the log only.
func Recover(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				apierr.WriteStatus(w, http.StatusInternalServerError, "Server exception", "")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
