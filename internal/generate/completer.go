// Package generate turns free-form organisation context into an ISO/IEC
// 27001-aligned policy artefact using a hosted language model.
package generate

import (
	"context"
	"fmt"
)

// Completer submits a prompt to a model provider.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (Output, error)
	// Provider is the display name used in error messages.
	Provider() string
}

// UpstreamError reports a non-success status from a provider.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generate: %s returned status %d", e.Provider, e.Status)
}
