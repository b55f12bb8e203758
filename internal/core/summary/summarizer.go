// Package summary turns a day's conversation into a short friendly note.
package summary

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

type Summarizer struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewSummarizer(client llm.Client, prompt string, log *zap.Logger) *Summarizer {
	return &Summarizer{LLM: client, Prompt: prompt, Log: log}
}

// Summarize returns a short summary of the given turns, or "" when there is
// nothing to summarize or generation fails.
func (s *Summarizer) Summarize(ctx context.Context, turns []model.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", turn.User.Content, turn.Assistant.Content)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return ""
	}

	prompt := fmt.Sprintf(s.Prompt, sb.String())

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		s.Log.Warn("summary generation failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(response)
}
