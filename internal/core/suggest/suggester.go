// Package suggest generates practical self-care suggestions keyed on the
// user's emotional state.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/core/common"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

// MaxSuggestions caps what gets persisted per update.
const MaxSuggestions = 4

type Suggester struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewSuggester(client llm.Client, prompt string, log *zap.Logger) *Suggester {
	return &Suggester{LLM: client, Prompt: prompt, Log: log}
}

type suggestPayload struct {
	Suggestions []string `json:"suggestions"`
}

// Generate returns up to MaxSuggestions items; an empty slice on any failure.
func (s *Suggester) Generate(ctx context.Context, profile model.UserProfile, verdict model.Verdict, recent []model.Turn, message string) []string {
	var sb strings.Builder
	start := len(recent) - 5
	if start < 0 {
		start = 0
	}
	for _, turn := range recent[start:] {
		fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", turn.User.Content, turn.Assistant.Content)
	}

	prompt := fmt.Sprintf(s.Prompt, profile.Name, verdict.Emotion, verdict.Urgency, sb.String(), message)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		s.Log.Warn("suggestion generation failed", zap.Error(err))
		return nil
	}

	result, err := common.ParseJSON[suggestPayload](response)
	if err != nil {
		s.Log.Warn("suggestion output unparsable", zap.Error(err))
		return nil
	}

	items := make([]string, 0, MaxSuggestions)
	for _, item := range result.Suggestions {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == MaxSuggestions {
			break
		}
	}
	return items
}
