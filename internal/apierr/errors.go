// Package apierr defines the error taxonomy shared by the site endpoints and
// renders errors as the small JSON bodies the browser client expects.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"
)

// Kind classifies a request failure.
type Kind string

const (
	KindInvalidMethod        Kind = "invalid_method"
	KindInvalidJSON          Kind = "invalid_json"
	KindPayloadTooLarge      Kind = "payload_too_large"
	KindMissingRequiredField Kind = "missing_required_field"
	KindTooManyRequests      Kind = "too_many_requests"
	KindMissingCredentials   Kind = "missing_credentials"
	KindUpstream             Kind = "upstream_error"
	KindEmptyOutput          Kind = "empty_output"
	KindUnexpected           Kind = "unexpected_exception"
)

const (
	// MaxExceptionDetail bounds the detail echoed for unexpected failures.
	MaxExceptionDetail = 400
	// MaxUpstreamDetail bounds the upstream error body echoed to callers.
	MaxUpstreamDetail = 800
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidMethod:
		return http.StatusMethodNotAllowed
	case KindInvalidJSON, KindMissingRequiredField:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindUpstream, KindEmptyOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err, keeping it for logging.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetail returns a copy of e carrying detail.
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

// KindOf reports the kind of err, or KindUnexpected when it is not classified.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// Body is the JSON error shape.
type Body struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Write renders err as JSON. Unclassified errors become a generic 500 with a
// truncated message.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Wrap(KindUnexpected, "Server exception", err).WithDetail(Truncate(err.Error(), MaxExceptionDetail))
	}
	WriteJSON(w, apiErr.Status(), Body{Error: apiErr.Message, Detail: apiErr.Detail})
}

// WriteStatus renders err as JSON with an explicit status code.
func WriteStatus(w http.ResponseWriter, status int, message, detail string) {
	WriteJSON(w, status, Body{Error: message, Detail: detail})
}

// WriteJSON writes body as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Truncate caps s at max characters without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
