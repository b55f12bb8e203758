package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/soreahq/sorea/internal/config"
)

type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(c.maxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no response candidates or content")
}
