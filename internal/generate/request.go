package generate

import (
	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/internal/intake"
)

const (
	// DefaultMaxChars is the source text ceiling when none is configured.
	DefaultMaxChars = 12000
	// MinTextChars is the shortest source text accepted.
	MinTextChars = 50

	maxTask   = 40
	maxTone   = 40
	maxFormat = 20
)

// ErrTextTooShort is returned when the source text is under MinTextChars.
var ErrTextTooShort = apierr.New(apierr.KindMissingRequiredField, "Please provide at least ~50 characters of input text.")

// Request is a validated generation request.
type Request struct {
	Task   string
	Tone   string
	Format string
	Text   string
}

// ParseRequest clamps the decoded body and applies defaults.
func ParseRequest(fields intake.Fields, maxChars int) (Request, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	req := Request{
		Task:   orDefault(fields.String("task", maxTask), "policy"),
		Tone:   orDefault(fields.String("tone", maxTone), "audit"),
		Format: orDefault(fields.String("format", maxFormat), "markdown"),
		Text:   fields.String("text", maxChars),
	}
	if intake.Len(req.Text) < MinTextChars {
		return Request{}, ErrTextTooShort
	}
	return req, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
