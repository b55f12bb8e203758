// Package classify maps a message to an emotion label and urgency level.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/core/common"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

type Classifier struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewClassifier(client llm.Client, prompt string, log *zap.Logger) *Classifier {
	return &Classifier{LLM: client, Prompt: prompt, Log: log}
}

type verdictPayload struct {
	Emotion   string `json:"emotion"`
	Urgency   int    `json:"urgency"`
	Reasoning string `json:"reasoning"`
}

var defaultVerdict = model.Verdict{Emotion: "neutral", Urgency: 1}

// Detect classifies a message. Any generation or parse failure yields the
// neutral default; the caller never sees an error.
func (c *Classifier) Detect(ctx context.Context, message string) model.Verdict {
	prompt := fmt.Sprintf(c.Prompt, message)

	response, err := c.LLM.Generate(ctx, prompt)
	if err != nil {
		c.Log.Warn("emotion detection failed, using default", zap.Error(err))
		return defaultVerdict
	}

	result, err := common.ParseJSON[verdictPayload](response)
	if err != nil {
		c.Log.Warn("emotion detection returned malformed output, using default", zap.Error(err))
		return defaultVerdict
	}

	emotion := strings.ToLower(strings.TrimSpace(result.Emotion))
	if emotion == "" {
		emotion = defaultVerdict.Emotion
	}

	return model.Verdict{
		Emotion: emotion,
		Urgency: model.ClampUrgency(result.Urgency),
	}
}
