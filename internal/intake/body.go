package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

var (
	// ErrPayloadTooLarge is returned when the body exceeds the configured ceiling.
	ErrPayloadTooLarge = apierr.New(apierr.KindPayloadTooLarge, "Payload too large")

	// ErrInvalidJSON is returned when the body cannot be parsed.
	ErrInvalidJSON = apierr.New(apierr.KindInvalidJSON, "Invalid JSON body")
)

// ReadBody reads the request body, rejecting declared or actual sizes above limit.
// A limit of zero or less disables the ceiling.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	if limit <= 0 {
		return io.ReadAll(r.Body)
	}
	if r.ContentLength > limit {
		return nil, ErrPayloadTooLarge
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrPayloadTooLarge
		}
		return nil, apierr.Wrap(apierr.KindInvalidJSON, "Invalid JSON body", err)
	}
	return raw, nil
}

// Decode parses a JSON body into Fields. An empty body, or JSON that is not an
// object, yields empty Fields so downstream validation reports what is missing.
func Decode(raw []byte) (Fields, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Fields{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, ErrInvalidJSON
	}
	if dec.More() {
		return nil, ErrInvalidJSON
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return Fields{}, nil
	}
	return Fields(obj), nil
}
