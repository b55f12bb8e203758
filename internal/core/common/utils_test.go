package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type verdictPayload struct {
	Emotion string `json:"emotion"`
	Urgency int    `json:"urgency"`
}

func TestParseJSONPlain(t *testing.T) {
	out, err := ParseJSON[verdictPayload](`{"emotion": "sad", "urgency": 3}`)
	assert.NoError(t, err)
	assert.Equal(t, "sad", out.Emotion)
	assert.Equal(t, 3, out.Urgency)
}

func TestParseJSONMarkdownFence(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"emotion\": \"anxious\", \"urgency\": 4}\n```\nHope that helps!"
	out, err := ParseJSON[verdictPayload](raw)
	assert.NoError(t, err)
	assert.Equal(t, "anxious", out.Emotion)
	assert.Equal(t, 4, out.Urgency)
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := ParseJSON[verdictPayload]("no json here at all")
	assert.Error(t, err)
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON[verdictPayload](`{"emotion": "sad", "urgency": }`)
	assert.Error(t, err)
}
