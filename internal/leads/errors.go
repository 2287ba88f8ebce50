package leads

import "github.com/wolfman30/reluguard-site/internal/apierr"

var (
	// ErrMethodNotAllowed is returned for anything but POST and OPTIONS.
	ErrMethodNotAllowed = apierr.New(apierr.KindInvalidMethod, "Method not allowed")

	// ErrInvalidEmail is returned when the email is absent or malformed.
	ErrInvalidEmail = apierr.New(apierr.KindMissingRequiredField, "Valid email required")

	// ErrTooManyRequests is returned when the client exceeded its quota.
	ErrTooManyRequests = apierr.New(apierr.KindTooManyRequests, "Too many requests")
)
