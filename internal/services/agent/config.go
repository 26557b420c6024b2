package agent

import (
	"context"
	"fmt"
	"time"
)

// Provider selects the backend that serves agent invocations
type Provider string

const (
	ProviderHTTP   Provider = "http"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Config holds agent backend configuration
type Config struct {
	Provider Provider
	BaseURL  string
	APIKey   string
	UserID   string
	Timeout  time.Duration

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiKey   string
	GeminiModel string

	IDs IDs
}

// DefaultConfig returns defaults for the hosted agent pipeline
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderHTTP,
		BaseURL:     "https://agents.stockpulse.app/api/v1",
		Timeout:     120 * time.Second,
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.5-flash",
		IDs:         DefaultIDs(),
	}
}

// New builds the invoker for the configured provider
func New(ctx context.Context, cfg *Config, registry *Registry) (Invoker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Provider {
	case "", ProviderHTTP:
		return NewHTTPInvoker(cfg), nil
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIInvoker(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, registry), nil
	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return NewGeminiInvoker(ctx, cfg.GeminiKey, cfg.GeminiModel, registry)
	}
	return nil, fmt.Errorf("unknown agent provider %q", cfg.Provider)
}
