package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	tests := map[Kind]int{
		KindInvalidMethod:        http.StatusMethodNotAllowed,
		KindInvalidJSON:          http.StatusBadRequest,
		KindPayloadTooLarge:      http.StatusRequestEntityTooLarge,
		KindMissingRequiredField: http.StatusBadRequest,
		KindTooManyRequests:      http.StatusTooManyRequests,
		KindMissingCredentials:   http.StatusInternalServerError,
		KindUpstream:             http.StatusBadGateway,
		KindEmptyOutput:          http.StatusBadGateway,
		KindUnexpected:           http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.Status(), string(kind))
	}
}

func TestWriteClassifiedError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, New(KindUpstream, "OpenAI error (503)").WithDetail("overloaded"))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OpenAI error (503)", body.Error)
	assert.Equal(t, "overloaded", body.Detail)
}

func TestWriteUnclassifiedErrorIsTruncated(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New(strings.Repeat("x", 1000)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server exception", body.Error)
	assert.Len(t, body.Detail, MaxExceptionDetail)
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(KindTooManyRequests, "Too many requests"))
	assert.Equal(t, KindTooManyRequests, KindOf(err))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}
