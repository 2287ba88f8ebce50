package ratelimit

import (
	"net/http"
	"strings"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

// MaxClientKeyLength caps the derived client identifier.
const MaxClientKeyLength = 80

// ClientKey identifies the caller from proxy headers: the first X-Forwarded-For
// entry, else X-Real-IP, else "unknown".
func ClientKey(r *http.Request) string {
	raw := r.Header.Get("X-Forwarded-For")
	if raw == "" {
		raw = r.Header.Get("X-Real-IP")
	}
	if raw == "" {
		return "unknown"
	}
	first, _, _ := strings.Cut(raw, ",")
	key := apierr.Truncate(strings.TrimSpace(first), MaxClientKeyLength)
	if key == "" {
		return "unknown"
	}
	return key
}
