package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/soreahq/sorea/internal/config"
)

type ClaudeClient struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClaudeClient(cfg config.LLMConfig) *ClaudeClient {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &ClaudeClient{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   maxTokens,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	temp := c.temperature
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}
