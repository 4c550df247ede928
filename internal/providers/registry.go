package providers

import (
	"fmt"
	"time"
)

// ClientConfig selects and configures an inference provider.
type ClientConfig struct {
	Type    string // "gemini" or "openai"
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a provider client from configuration.
func NewClient(cfg ClientConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %q: API key is required", cfg.Type)
	}
	switch cfg.Type {
	case GeminiName, "":
		return NewGeminiClient(GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}), nil
	case OpenAIName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}
