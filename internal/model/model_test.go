package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampUrgency(t *testing.T) {
	assert.Equal(t, 1, ClampUrgency(-3))
	assert.Equal(t, 1, ClampUrgency(0))
	assert.Equal(t, 3, ClampUrgency(3))
	assert.Equal(t, 5, ClampUrgency(5))
	assert.Equal(t, 5, ClampUrgency(42))
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, ClampConfidence(-0.5))
	assert.Equal(t, 0.7, ClampConfidence(0.7))
	assert.Equal(t, 1.0, ClampConfidence(3.2))
}

func TestEventIDDeterministic(t *testing.T) {
	a := EventID("exam", "alice@example.com", "2025-01-20", "I have a math exam tomorrow")
	b := EventID("exam", "alice@example.com", "2025-01-20", "I have a math exam tomorrow")
	assert.Equal(t, a, b)

	c := EventID("exam", "alice@example.com", "2025-01-20", "different message")
	assert.NotEqual(t, a, c)
}

func TestEventIDShape(t *testing.T) {
	id := EventID("Job Interview", "bob@example.com", "2025-02-01", "interview next week")
	assert.Contains(t, id, "job_interview_bob_2025-02-01_")
}

func TestBucketFor(t *testing.T) {
	ts := time.Date(2025, 1, 14, 22, 5, 0, 0, time.UTC)
	b := BucketFor(ts)
	assert.Equal(t, DateBucket("conv_20250114"), b)
	assert.Equal(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), b.Date())
}

func TestBucketDateMalformed(t *testing.T) {
	assert.True(t, DateBucket("conv_garbage").Date().IsZero())
}

func TestTurnValidate(t *testing.T) {
	valid := Turn{
		User:      UserMessage{Content: "hi"},
		Assistant: AssistantMessage{Content: "hello"},
	}
	assert.NoError(t, valid.Validate())

	oneSided := Turn{User: UserMessage{Content: "hi"}}
	assert.Error(t, oneSided.Validate())

	empty := Turn{Assistant: AssistantMessage{Content: "hello"}}
	assert.Error(t, empty.Validate())
}
