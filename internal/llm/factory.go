package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/soreahq/sorea/internal/config"
)

func NewClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg)

	case "openai":
		return NewOpenAIClient(cfg), nil

	case "claude":
		return NewClaudeClient(cfg), nil

	case "ollama":
		// Ollama speaks the OpenAI-compatible API; route it through the
		// OpenAI client so usage tracking works.
		ollamaCfg := cfg
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		ollamaCfg.BaseURL = baseURL
		if ollamaCfg.APIKey == "" {
			ollamaCfg.APIKey = "ollama" // dummy, ignored by Ollama but required by the client
		}
		return NewOpenAIClient(ollamaCfg), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
