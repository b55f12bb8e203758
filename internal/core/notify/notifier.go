// Package notify generates short re-engagement check-in texts.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

type Notifier struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewNotifier(client llm.Client, prompt string, log *zap.Logger) *Notifier {
	return &Notifier{LLM: client, Prompt: prompt, Log: log}
}

// Fallback is the fixed check-in used whenever generation cannot produce a
// personalized one.
func Fallback(name string) string {
	return fmt.Sprintf("Hey %s, Missing you. Are you feeling okay??", name)
}

// CheckIn builds a short notification from the user's last activity and
// recent turns. Always returns a non-empty string.
func (n *Notifier) CheckIn(ctx context.Context, profile model.UserProfile, lastActive time.Time, recent []model.Turn) string {
	if lastActive.IsZero() {
		return Fallback(profile.Name)
	}

	situation := describeAbsence(time.Since(lastActive), lastActive)

	var sb strings.Builder
	for _, turn := range recent {
		fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", turn.User.Content, turn.Assistant.Content)
	}
	transcript := sb.String()
	if transcript == "" {
		transcript = "No recent conversation available"
	}

	prompt := fmt.Sprintf(n.Prompt, profile.Name, situation, transcript)

	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		n.Log.Warn("notification generation failed, using fallback", zap.Error(err))
		return Fallback(profile.Name)
	}

	text := strings.TrimSpace(response)
	text = strings.Trim(text, `"`)
	if text == "" {
		return Fallback(profile.Name)
	}
	return text
}

func describeAbsence(since time.Duration, lastActive time.Time) string {
	hours := since.Hours()
	switch {
	case hours < 24:
		return fmt.Sprintf("User has been away for %d hours after chatting earlier today", int(hours))
	case hours < 48:
		return "User has been away since yesterday"
	default:
		return fmt.Sprintf("User hasn't been active since %s", lastActive.Format("January 2"))
	}
}
