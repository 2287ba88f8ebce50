package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIConfig configures the Responses API client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIClient calls the OpenAI Responses API.
type OpenAIClient struct {
	client openai.Client
	model  shared.ResponsesModel
}

// NewOpenAIClient returns nil when no API key is configured.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		// one attempt per request; the site never retries upstream calls
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  shared.ResponsesModel(cfg.Model),
	}
}

func (c *OpenAIClient) Provider() string { return "OpenAI" }

// Complete sends the prompt through Responses.New.
func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (Output, error) {
	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(prompt.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt.User),
		},
	}
	if prompt.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(prompt.MaxOutputTokens))
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
			return Output{}, &UpstreamError{
				Provider: c.Provider(),
				Status:   apiErr.StatusCode,
				Body:     apierr.Truncate(openAIErrorBody(apiErr), apierr.MaxUpstreamDetail),
			}
		}
		return Output{}, fmt.Errorf("generate: openai request failed: %w", err)
	}
	return responsesOutput(resp), nil
}

// openAIErrorBody prefers the raw response body, which the SDK keeps readable.
func openAIErrorBody(apiErr *openai.Error) string {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		if raw, err := io.ReadAll(apiErr.Response.Body); err == nil && len(raw) > 0 {
			return string(raw)
		}
	}
	if raw := apiErr.RawJSON(); raw != "" {
		return raw
	}
	return apiErr.Error()
}

// responsesOutput prefers the aggregated output_text; otherwise every output
// item contributes its content parts.
func responsesOutput(resp *responses.Response) Output {
	if resp == nil {
		return Output{}
	}
	if text := resp.OutputText(); text != "" {
		return TextOutput(text)
	}
	items := make([][]string, 0, len(resp.Output))
	for _, item := range resp.Output {
		parts := make([]string, 0, len(item.Content))
		for _, part := range item.Content {
			parts = append(parts, part.Text)
		}
		items = append(items, parts)
	}
	return SegmentOutput(items)
}

var _ Completer = (*OpenAIClient)(nil)
