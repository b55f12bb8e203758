// Package crisis produces the high-priority response for maximum-urgency
// messages.
package crisis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/core/common"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

type Responder struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewResponder(client llm.Client, prompt string, log *zap.Logger) *Responder {
	return &Responder{LLM: client, Prompt: prompt, Log: log}
}

type crisisPayload struct {
	CrisisResponse    string   `json:"crisis_response"`
	Suggestions       []string `json:"suggestions"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// Respond generates the crisis intervention reply. It never returns an empty
// message: on any failure the fixed caring fallback naming the user is
// returned instead of a templated crisis script. Never silent on a crisis.
func (r *Responder) Respond(ctx context.Context, profile model.UserProfile, message string) model.AssistantMessage {
	prompt := fmt.Sprintf(r.Prompt, profile.Name, message)

	response, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		r.Log.Error("crisis response generation failed, using fallback", zap.Error(err))
		return r.fallback(profile.Name)
	}

	result, err := common.ParseJSON[crisisPayload](response)
	if err != nil || result.CrisisResponse == "" {
		r.Log.Error("crisis response unparsable, using fallback", zap.Error(err))
		return r.fallback(profile.Name)
	}

	return model.AssistantMessage{
		Content:     result.CrisisResponse,
		Suggestions: result.Suggestions,
		FollowUps:   result.FollowUpQuestions,
	}
}

func (r *Responder) fallback(name string) model.AssistantMessage {
	if name == "" {
		name = "friend"
	}
	return model.AssistantMessage{
		Content: fmt.Sprintf(
			"What's really on your heart right now, %s? How can I best support you today?", name),
	}
}
