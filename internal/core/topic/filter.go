// Package topic decides whether the recent conversation window is in scope
// for the companion.
package topic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/core/common"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

type Filter struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewFilter(client llm.Client, prompt string, log *zap.Logger) *Filter {
	return &Filter{LLM: client, Prompt: prompt, Log: log}
}

type topicPayload struct {
	Relevant   bool    `json:"relevant"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func defaultTopicVerdict() model.TopicVerdict {
	return model.TopicVerdict{
		Relevant:   false,
		Confidence: 0.1,
		Reason:     "classifier did not provide a verdict",
	}
}

// Check classifies the last few user messages; the final one decides. Any
// failure yields the not-relevant default.
func (f *Filter) Check(ctx context.Context, lastMessages []string) model.TopicVerdict {
	if len(lastMessages) == 0 {
		return defaultTopicVerdict()
	}

	var sb strings.Builder
	for i, msg := range lastMessages {
		fmt.Fprintf(&sb, "Message %d: %s\n", i+1, msg)
	}
	final := lastMessages[len(lastMessages)-1]
	prompt := fmt.Sprintf(f.Prompt, sb.String(), final)

	response, err := f.LLM.Generate(ctx, prompt)
	if err != nil {
		f.Log.Warn("topic filter failed, using default", zap.Error(err))
		return defaultTopicVerdict()
	}

	result, err := common.ParseJSON[topicPayload](response)
	if err != nil {
		f.Log.Warn("topic filter returned malformed output, using default", zap.Error(err))
		return defaultTopicVerdict()
	}

	reason := strings.TrimSpace(result.Reason)
	if reason == "" {
		reason = "no reason provided"
	}

	return model.TopicVerdict{
		Relevant:   result.Relevant,
		Confidence: model.ClampConfidence(result.Confidence),
		Reason:     reason,
	}
}
