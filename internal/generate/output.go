package generate

import "strings"

// OutputKind tags which response shape an Output came from.
type OutputKind int

const (
	OutputEmpty OutputKind = iota
	OutputText
	OutputSegments
)

func (k OutputKind) String() string {
	switch k {
	case OutputText:
		return "text"
	case OutputSegments:
		return "segments"
	default:
		return "empty"
	}
}

// Output is the text a model returned, either as one flat string or as a list
// of items that each hold content parts.
type Output struct {
	Kind     OutputKind
	Flat     string
	Segments [][]string
}

// TextOutput wraps a flat string.
func TextOutput(s string) Output {
	if s == "" {
		return Output{}
	}
	return Output{Kind: OutputText, Flat: s}
}

// SegmentOutput wraps a list of items of content parts.
func SegmentOutput(items [][]string) Output {
	if len(items) == 0 {
		return Output{}
	}
	return Output{Kind: OutputSegments, Segments: items}
}

// Text returns the plain text: parts are concatenated and items joined by newlines.
func (o Output) Text() string {
	switch o.Kind {
	case OutputText:
		return o.Flat
	case OutputSegments:
		items := make([]string, len(o.Segments))
		for i, parts := range o.Segments {
			items[i] = strings.Join(parts, "")
		}
		return strings.Join(items, "\n")
	default:
		return ""
	}
}

// IsEmpty reports whether there is no usable text.
func (o Output) IsEmpty() bool {
	return strings.TrimSpace(o.Text()) == ""
}
