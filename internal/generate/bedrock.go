package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/wolfman30/reluguard-site/internal/apierr"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient generates through the Bedrock Converse API.
type BedrockClient struct {
	api     bedrockConverseAPI
	modelID string
}

// NewBedrockClient returns nil when the client or model id is missing.
func NewBedrockClient(api bedrockConverseAPI, modelID string) *BedrockClient {
	if api == nil || strings.TrimSpace(modelID) == "" {
		return nil
	}
	return &BedrockClient{api: api, modelID: modelID}
}

func (c *BedrockClient) Provider() string { return "Bedrock" }

func (c *BedrockClient) Complete(ctx context.Context, prompt Prompt) (Output, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		System: []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: prompt.System},
		},
		Messages: []brtypes.Message{{
			Role: brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: prompt.User},
			},
		}},
	}
	if prompt.MaxOutputTokens > 0 {
		input.InferenceConfig = &brtypes.InferenceConfiguration{
			MaxTokens: aws.Int32(int32(prompt.MaxOutputTokens)),
		}
	}

	out, err := c.api.Converse(ctx, input)
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() > 0 {
			return Output{}, &UpstreamError{
				Provider: c.Provider(),
				Status:   respErr.HTTPStatusCode(),
				Body:     apierr.Truncate(respErr.Error(), apierr.MaxUpstreamDetail),
			}
		}
		return Output{}, fmt.Errorf("generate: bedrock converse failed: %w", err)
	}
	return bedrockOutput(out), nil
}

func bedrockOutput(out *bedrockruntime.ConverseOutput) Output {
	if out == nil || out.Output == nil {
		return Output{}
	}
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return Output{}
	}
	parts := make([]string, 0, len(msg.Value.Content))
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	if len(parts) == 0 {
		return Output{}
	}
	return SegmentOutput([][]string{parts})
}

var _ Completer = (*BedrockClient)(nil)
