package agent

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIInvoker fulfills commands directly through the OpenAI API using
// the official SDK, steering the model toward the structured reply with
// the shared system prompt.
type OpenAIInvoker struct {
	client openai.Client
	model  string
}

// NewOpenAIInvoker creates an OpenAI-backed invoker. Returns an error if
// the API key is missing.
func NewOpenAIInvoker(baseURL, apiKey, model string) (*OpenAIInvoker, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIInvoker{client: client, model: model}, nil
}

// Invoke sends the command as a chat completion and wraps the reply in
// the agent envelope. The agent id is unused here; the model itself
// plays the agent.
func (p *OpenAIInvoker) Invoke(ctx context.Context, command, agentID string) (InvokeResult, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(command),
		},
		Model: openai.ChatModel(p.model),
	})
	if err != nil {
		return InvokeResult{}, fmt.Errorf("OpenAI request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return InvokeResult{Success: false, Error: "OpenAI returned no choices"}, nil
	}

	return InvokeResult{
		Success:  true,
		Response: &Response{Result: completion.Choices[0].Message.Content},
	}, nil
}
