package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

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

func newNotifier(m *mockLLM) *Notifier {
	return NewNotifier(m, "name %[1]s situation %[2]s conversation %[3]s", zap.NewNop())
}

var profile = model.UserProfile{Name: "Alice", Timezone: "UTC"}

func TestCheckInGenerates(t *testing.T) {
	m := &mockLLM{response: `"Alice, how was class today? Feeling better now??"`}
	out := newNotifier(m).CheckIn(context.Background(), profile, time.Now().Add(-6*time.Hour), nil)
	assert.Equal(t, "Alice, how was class today? Feeling better now??", out)
}

func TestCheckInFallbackNoHistory(t *testing.T) {
	m := &mockLLM{response: "should not matter"}
	out := newNotifier(m).CheckIn(context.Background(), profile, time.Time{}, nil)
	assert.Equal(t, "Hey Alice, Missing you. Are you feeling okay??", out)
}

func TestCheckInFallbackOnError(t *testing.T) {
	m := &mockLLM{err: fmt.Errorf("unavailable")}
	out := newNotifier(m).CheckIn(context.Background(), profile, time.Now().Add(-30*time.Hour), nil)
	assert.Equal(t, Fallback("Alice"), out)
}

func TestCheckInFallbackOnEmptyOutput(t *testing.T) {
	m := &mockLLM{response: "  "}
	out := newNotifier(m).CheckIn(context.Background(), profile, time.Now().Add(-2*time.Hour), nil)
	assert.Equal(t, Fallback("Alice"), out)
}

func TestDescribeAbsence(t *testing.T) {
	ref := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Contains(t, describeAbsence(5*time.Hour, ref), "hours")
	assert.Equal(t, "User has been away since yesterday", describeAbsence(30*time.Hour, ref))
	assert.Contains(t, describeAbsence(80*time.Hour, ref), "March 10")
}
