package crisis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/model"
)

type mockLLM struct {
	response string
	err      error
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return m.response, m.err
}

func newResponder(m *mockLLM) *Responder {
	return NewResponder(m, "name: %s message: '%s'", zap.NewNop())
}

var alice = model.UserProfile{Name: "Alice", Timezone: "UTC"}

func TestRespondParsesFullResponse(t *testing.T) {
	m := &mockLLM{response: `{
		"crisis_response": "Alice, stop. Call 988 right now - I am not letting you think like that.",
		"suggestions": ["Call 988 now", "Text HOME to 741741"],
		"follow_up_questions": ["Are you somewhere safe right now, Alice?"]
	}`}

	msg := newResponder(m).Respond(context.Background(), alice, "I can't go on")
	assert.Contains(t, msg.Content, "988")
	assert.Len(t, msg.Suggestions, 2)
	assert.Len(t, msg.FollowUps, 1)
}

func TestRespondFallbackOnError(t *testing.T) {
	m := &mockLLM{err: fmt.Errorf("quota exceeded")}
	msg := newResponder(m).Respond(context.Background(), alice, "I can't go on")

	assert.NotEmpty(t, msg.Content, "crisis response must never be empty")
	assert.Contains(t, msg.Content, "Alice")
}

func TestRespondFallbackOnMalformedOutput(t *testing.T) {
	m := &mockLLM{response: "I'm so sorry you're going through this"}
	msg := newResponder(m).Respond(context.Background(), alice, "I can't go on")

	assert.NotEmpty(t, msg.Content)
	assert.Contains(t, msg.Content, "Alice")
}

func TestRespondFallbackOnEmptyContent(t *testing.T) {
	m := &mockLLM{response: `{"crisis_response": "", "suggestions": [], "follow_up_questions": []}`}
	msg := newResponder(m).Respond(context.Background(), alice, "I can't go on")
	assert.NotEmpty(t, msg.Content)
}

func TestRespondFallbackUnnamedUser(t *testing.T) {
	m := &mockLLM{err: fmt.Errorf("down")}
	msg := newResponder(m).Respond(context.Background(), model.UserProfile{}, "help")
	assert.Contains(t, msg.Content, "friend")
}
