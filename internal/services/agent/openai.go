package agent

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIInvoker serves agent calls with an OpenAI chat model
type OpenAIInvoker struct {
	client   *openai.Client
	model    string
	registry *Registry
}

// NewOpenAIInvoker creates an invoker backed by the chat completions API
func NewOpenAIInvoker(apiKey, baseURL, model string, registry *Registry) *OpenAIInvoker {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIInvoker{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		registry: registry,
	}
}

// Invoke sends the message with the system prompt of the addressed agent
func (c *OpenAIInvoker) Invoke(ctx context.Context, message, agentID string) (*Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPromptFor(c.registry, agentID)},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}
	return TextResult(resp.Choices[0].Message.Content), nil
}
