package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient generates through Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

// NewGeminiClient returns (nil, nil) when no API key is configured.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("generate: failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

func (c *GeminiClient) Provider() string { return "Gemini" }

func (c *GeminiClient) Complete(ctx context.Context, prompt Prompt) (Output, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.System))
	if prompt.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(prompt.MaxOutputTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
			return Output{}, &UpstreamError{
				Provider: c.Provider(),
				Status:   apiErr.HTTPCode(),
				Body:     apierr.Truncate(apiErr.Error(), apierr.MaxUpstreamDetail),
			}
		}
		return Output{}, fmt.Errorf("generate: gemini completion failed: %w", err)
	}
	return geminiOutput(resp), nil
}

func geminiOutput(resp *genai.GenerateContentResponse) Output {
	if resp == nil || len(resp.Candidates) == 0 {
		return Output{}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return Output{}
	}
	parts := make([]string, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return Output{}
	}
	return SegmentOutput([][]string{parts})
}

// Close releases resources held by the Gemini client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

var _ Completer = (*GeminiClient)(nil)
