package generate

import (
	"encoding/json"
	"testing"

	"github.com/openai/openai-go/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponsesOutput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind OutputKind
		wantText string
		empty    bool
	}{
		{
			name:     "aggregated output_text",
			body:     `{"output":[{"type":"reasoning","id":"rs_1"},{"type":"message","role":"assistant","content":[{"type":"output_text","text":"# Pol"},{"type":"output_text","text":"icy"}]}]}`,
			wantKind: OutputText,
			wantText: "# Policy",
		},
		{
			name:     "untyped items become segments",
			body:     `{"output":[{"content":[{"text":"# Policy"}]},{"content":[{"text":"Appendix"}]}]}`,
			wantKind: OutputSegments,
			wantText: "# Policy\nAppendix",
		},
		{
			name:     "no output",
			body:     `{"id":"resp_1"}`,
			wantKind: OutputEmpty,
			empty:    true,
		},
		{
			name:     "segments without text",
			body:     `{"output":[{"type":"message","content":[{"type":"refusal","refusal":"no"}]},{"content":[]}]}`,
			wantKind: OutputSegments,
			wantText: "\n",
			empty:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp responses.Response
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			out := responsesOutput(&resp)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantText, out.Text())
			assert.Equal(t, tt.empty, out.IsEmpty())
		})
	}
}

func TestResponsesOutputNil(t *testing.T) {
	assert.Equal(t, OutputEmpty, responsesOutput(nil).Kind)
}

func TestOutputConstructors(t *testing.T) {
	assert.Equal(t, OutputEmpty, TextOutput("").Kind)
	assert.Equal(t, OutputEmpty, SegmentOutput(nil).Kind)
	assert.Equal(t, "segments", SegmentOutput([][]string{{"a"}}).Kind.String())
}
