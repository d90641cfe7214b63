package llm

import (
	"context"
	"fmt"

	"onyx-tutor/internal/config"
)

// NewChatModel builds the configured provider wrapped with logging.
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	var (
		base ChatModel
		err  error
	)

	switch cfg.Provider {
	case "ollama":
		base, err = NewOllamaModel(cfg.ServerURL, cfg.Model, cfg.Timeout)
	case "openai", "together":
		baseURL := cfg.BaseURL
		if cfg.Provider == "together" && baseURL == "" {
			baseURL = TogetherBaseURL
		}
		base, err = NewOpenAIModel(cfg.APIKey, baseURL, cfg.Model)
	case "anthropic":
		base, err = NewAnthropicModel(cfg.APIKey, cfg.Model)
	case "gemini":
		base, err = NewGeminiModel(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(base, cfg.Provider), nil
}
