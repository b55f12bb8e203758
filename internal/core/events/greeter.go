package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/model"
)

type Greeter struct {
	LLM    llm.Client
	Prompt string
	Log    *zap.Logger
}

func NewGreeter(client llm.Client, prompt string, log *zap.Logger) *Greeter {
	return &Greeter{LLM: client, Prompt: prompt, Log: log}
}

// Greeting builds a caring check-in referencing the user's stored events.
// Returns "" when there are no events or generation fails, so callers can
// fall back to a plain notification.
func (g *Greeter) Greeting(ctx context.Context, name string, events []model.Event) string {
	if len(events) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&sb, "- %s on %s: %s\n", ev.Type, ev.Date, ev.Description)
	}

	today := time.Now().UTC().Format("2006-01-02")
	prompt := fmt.Sprintf(g.Prompt, name, today, sb.String())

	response, err := g.LLM.Generate(ctx, prompt)
	if err != nil {
		g.Log.Warn("event greeting failed", zap.Error(err))
		return ""
	}

	greeting := strings.TrimSpace(response)
	greeting = strings.Trim(greeting, `"`)
	return greeting
}
