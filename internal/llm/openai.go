package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	cfgpkg "github.com/soreahq/sorea/internal/config"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIClient(cfg cfgpkg.LLMConfig) *OpenAIClient {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("no response choices")
}
