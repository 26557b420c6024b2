package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiInvoker serves agent calls with a Gemini model
type GeminiInvoker struct {
	client   *genai.Client
	model    string
	registry *Registry
}

// NewGeminiInvoker creates an invoker backed by the Gemini API
func NewGeminiInvoker(ctx context.Context, apiKey, model string, registry *Registry) (*GeminiInvoker, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}
	return &GeminiInvoker{client: client, model: model, registry: registry}, nil
}

// Invoke sends the message with the system prompt of the addressed agent
func (c *GeminiInvoker) Invoke(ctx context.Context, message, agentID string) (*Response, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPromptFor(c.registry, agentID)}},
		},
		Temperature: genai.Ptr(float32(0.2)),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(message), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}
	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return nil, fmt.Errorf("ai response content is empty")
	}
	return TextResult(content), nil
}
