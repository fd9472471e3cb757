package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicInvoker fulfills commands directly through the Anthropic API
// using the official SDK.
type AnthropicInvoker struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicInvoker creates an Anthropic-backed invoker. Returns an
// error if the API key is missing.
func NewAnthropicInvoker(baseURL, apiKey, model string) (*AnthropicInvoker, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var anthropicModel anthropic.Model
	if model == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicInvoker{client: &client, model: anthropicModel}, nil
}

// Invoke sends the command as a single-turn message and wraps the text
// blocks of the reply in the agent envelope.
func (p *AnthropicInvoker) Invoke(ctx context.Context, command, agentID string) (InvokeResult, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 4096, // Required by Anthropic API
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(command)),
		},
	})
	if err != nil {
		return InvokeResult{}, fmt.Errorf("Anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(textBlock.Text)
		}
	}

	if text.Len() == 0 {
		return InvokeResult{Success: false, Error: "Anthropic returned no text content"}, nil
	}

	return InvokeResult{
		Success:  true,
		Response: &Response{Result: text.String()},
	}, nil
}
