package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Verdict is the emotion/urgency classification of a single user message.
// Urgency 5 is the sole escalation trigger.
type Verdict struct {
	Emotion string
	Urgency int
}

// TopicVerdict is the relevance decision for the recent conversation window.
type TopicVerdict struct {
	Relevant   bool
	Confidence float64
	Reason     string
}

// UserMessage is the user side of a conversation turn.
type UserMessage struct {
	Content string
	Emotion string
	Urgency int
}

// AssistantMessage is the model side of a conversation turn.
type AssistantMessage struct {
	Content     string
	Suggestions []string
	FollowUps   []string
}

// Turn is one user/assistant exchange. Turns are ordered by Timestamp
// ascending within a conversation bucket.
type Turn struct {
	User      UserMessage
	Assistant AssistantMessage
	Timestamp time.Time
}

// Validate rejects one-sided turns; a turn is only persisted with both
// messages populated.
func (t Turn) Validate() error {
	if strings.TrimSpace(t.User.Content) == "" {
		return fmt.Errorf("turn missing user message")
	}
	if strings.TrimSpace(t.Assistant.Content) == "" {
		return fmt.Errorf("turn missing assistant message")
	}
	return nil
}

// Event is a dated real-world event detected in a message.
type Event struct {
	ID          string
	Type        string
	Description string
	Date        string // YYYY-MM-DD
	MentionedAt time.Time
	Completed   bool
}

// EventID derives the event identifier as a pure function of its content,
// so re-detection of an identical event collides instead of duplicating.
func EventID(eventType, userID, date, text string) string {
	hash := md5.Sum([]byte(text))
	local := userID
	if i := strings.Index(userID, "@"); i > 0 {
		local = userID[:i]
	}
	typ := strings.ReplaceAll(strings.ToLower(eventType), " ", "_")
	return fmt.Sprintf("%s_%s_%s_%s", typ, local, date, hex.EncodeToString(hash[:])[:6])
}

// Suggestions is the latest per-user suggestion set, keyed on the
// emotion/urgency that produced it.
type Suggestions struct {
	Emotion   string
	Urgency   int
	Items     []string
	UpdatedAt time.Time
}

// UserProfile holds the fields the pipeline personalizes on. Profiles are
// created lazily with these defaults on first read.
type UserProfile struct {
	Name     string
	Timezone string
}

const (
	DefaultName     = "Friend"
	DefaultTimezone = "UTC"
)

// DateBucket groups turns by calendar date, e.g. "conv_20250114".
type DateBucket string

const bucketPrefix = "conv_"

func BucketFor(t time.Time) DateBucket {
	return DateBucket(bucketPrefix + t.Format("20060102"))
}

// Date returns the bucket's calendar date, or the zero time when the bucket
// is malformed.
func (b DateBucket) Date() time.Time {
	s := strings.TrimPrefix(string(b), bucketPrefix)
	d, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}
	}
	return d
}

// ClampUrgency forces an urgency level into [1,5].
func ClampUrgency(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// ClampConfidence forces a confidence score into [0.0,1.0].
func ClampConfidence(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
