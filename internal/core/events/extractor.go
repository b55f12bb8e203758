// Package events detects dated real-world events in messages and generates
// event-aware greetings.
package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/core/common"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

// MinConfidence is the floor below which a detection is discarded.
const MinConfidence = 0.7

type Extractor struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewExtractor(client llm.Client, prompt string, log *zap.Logger) *Extractor {
	return &Extractor{LLM: client, Prompt: prompt, Log: log}
}

type eventPayload struct {
	HasEvent   bool    `json:"has_event"`
	EventType  string  `json:"event_type"`
	EventDate  string  `json:"event_date"`
	Confidence float64 `json:"confidence"`
}

// Extract returns the detected event, or nil when the message carries none.
// The event ID is a pure function of (type, user, date, message), so
// re-detecting the same event is idempotent. All failures yield nil.
func (e *Extractor) Extract(ctx context.Context, userID, message string) *model.Event {
	today := time.Now().UTC().Format("2006-01-02")
	prompt := fmt.Sprintf(e.Prompt, today, message)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		e.Log.Debug("event extraction failed", zap.Error(err))
		return nil
	}

	result, err := common.ParseJSON[eventPayload](response)
	if err != nil {
		e.Log.Debug("event extraction returned malformed output", zap.Error(err))
		return nil
	}

	if !result.HasEvent || result.Confidence < MinConfidence || result.EventDate == "" {
		return nil
	}

	eventType := result.EventType
	if eventType == "" {
		eventType = "event"
	}

	return &model.Event{
		ID:          model.EventID(eventType, userID, result.EventDate, message),
		Type:        eventType,
		Description: message,
		Date:        result.EventDate,
		MentionedAt: time.Now().UTC(),
		Completed:   false,
	}
}
