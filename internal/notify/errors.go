package notify

import (
	"fmt"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

// StatusError is returned when a provider answers with a non-success status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("notify: %s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("notify: %s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func newStatusError(provider string, status int, body string) *StatusError {
	return &StatusError{
		Provider:   provider,
		StatusCode: status,
		Body:       apierr.Truncate(body, apierr.MaxUpstreamDetail),
	}
}
