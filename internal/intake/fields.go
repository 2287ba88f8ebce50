// Package intake normalises untrusted request bodies: every value that leaves
// this package is a trimmed, length-bounded string.
package intake

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

// DefaultAnswerLimit applies to allow-listed answer keys without an explicit limit.
const DefaultAnswerLimit = 200

// Fields is a decoded JSON object.
type Fields map[string]any

// String returns the clamped string form of key.
func (f Fields) String(key string, max int) string {
	if f == nil {
		return ""
	}
	return Clamp(f[key], max)
}

// Value returns the raw decoded value for key.
func (f Fields) Value(key string) any {
	if f == nil {
		return nil
	}
	return f[key]
}

// Clamp coerces v to a string, trims it and truncates it to max characters.
// Absent, null and non-scalar values normalise to "".
func Clamp(v any, max int) string {
	return apierr.Truncate(strings.TrimSpace(scalar(v)), max)
}

// Filled reports whether v carries any content. Unlike Clamp it counts
// composites: an object is always filled, and an array is filled when it joins
// to a non-empty string (more than one element, or one filled element).
func Filled(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return true
	case []any:
		return len(t) > 1 || (len(t) == 1 && Filled(t[0]))
	default:
		return strings.TrimSpace(scalar(v)) != ""
	}
}

// OneLine clamps v and replaces line breaks so it is safe in header-like contexts.
func OneLine(v any, max int) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(Clamp(v, max))
}

// Len reports the length of s in characters.
func Len(s string) int {
	return len([]rune(s))
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return numberString(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func numberString(n json.Number) string {
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

// AnswerField is an allow-listed key in a nested answers object.
type AnswerField struct {
	Key   string
	Limit int
}

// ClampAnswers keeps only the allow-listed keys of v, each clamped to its limit.
// A non-object v yields an empty map.
func ClampAnswers(v any, allowed []AnswerField) map[string]string {
	out := make(map[string]string)
	obj, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for _, field := range allowed {
		raw, present := obj[field.Key]
		if !present {
			continue
		}
		limit := field.Limit
		if limit <= 0 {
			limit = DefaultAnswerLimit
		}
		out[field.Key] = Clamp(raw, limit)
	}
	return out
}
