package suggest

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

func newSuggester(m *mockLLM) *Suggester {
	return NewSuggester(m, "name %[1]s emotion %[2]s urgency %[3]d context %[4]s message %[5]s", zap.NewNop())
}

var (
	profile = model.UserProfile{Name: "Alice"}
	verdict = model.Verdict{Emotion: "stressed", Urgency: 3}
)

func TestGenerateParsesSuggestions(t *testing.T) {
	m := &mockLLM{response: `{"suggestions": ["Take a short walk", "Text a close friend"]}`}
	items := newSuggester(m).Generate(context.Background(), profile, verdict, nil, "so much homework")

	assert.Equal(t, []string{"Take a short walk", "Text a close friend"}, items)
}

func TestGenerateCapsAtFour(t *testing.T) {
	m := &mockLLM{response: `{"suggestions": ["a", "b", "c", "d", "e", "f"]}`}
	items := newSuggester(m).Generate(context.Background(), profile, verdict, nil, "x")
	assert.Len(t, items, MaxSuggestions)
}

func TestGenerateSkipsBlankItems(t *testing.T) {
	m := &mockLLM{response: `{"suggestions": ["  ", "Breathe slowly", ""]}`}
	items := newSuggester(m).Generate(context.Background(), profile, verdict, nil, "x")
	assert.Equal(t, []string{"Breathe slowly"}, items)
}

func TestGenerateEmptyOnError(t *testing.T) {
	m := &mockLLM{err: fmt.Errorf("unavailable")}
	assert.Empty(t, newSuggester(m).Generate(context.Background(), profile, verdict, nil, "x"))
}

func TestGenerateEmptyOnMalformedOutput(t *testing.T) {
	m := &mockLLM{response: "1. walk\n2. breathe"}
	assert.Empty(t, newSuggester(m).Generate(context.Background(), profile, verdict, nil, "x"))
}
