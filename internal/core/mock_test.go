package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/soreahq/sorea/internal/model"
)

// Prompt markers from the default templates, used to route mock responses
// regardless of call order (the fetch fan-out and the detached extractor run
// concurrently).
const (
	markClassify = "emotion detection system"
	markTopic    = "mental health topic classifier"
	markEvents   = "You detect important upcoming"
	markCrisis   = "severe emotional crisis"
	markSuggest  = "practical suggestions"
	markSummary  = "Summarize this conversation"
	markNotify   = "check-in notification"
	markGreeting = "remembers important events"
	markPersona  = "supportive friend who adapts"
)

type route struct {
	name     string
	marker   string
	resp     string
	err      error
	failures int           // return an error for this many calls, then resp
	block    chan struct{} // when set, Generate waits on it before returning
}

type routedLLM struct {
	mu     sync.Mutex
	routes []route
	calls  map[string]int
}

func newRoutedLLM(routes ...route) *routedLLM {
	return &routedLLM{routes: routes, calls: make(map[string]int)}
}

func (m *routedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	var r *route
	for i := range m.routes {
		if strings.Contains(prompt, m.routes[i].marker) {
			r = &m.routes[i]
			break
		}
	}
	if r == nil {
		m.calls["unmatched"]++
		m.mu.Unlock()
		return "", fmt.Errorf("no mock route matches prompt")
	}
	m.calls[r.name]++
	if r.failures > 0 {
		r.failures--
		m.mu.Unlock()
		return "", fmt.Errorf("mock failure for %s", r.name)
	}
	resp, err, block := r.resp, r.err, r.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	return resp, err
}

func (m *routedLLM) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *routedLLM) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func respVerdict(urgency int) string {
	return fmt.Sprintf(`{"emotion": "sad", "urgency": %d, "reasoning": "test"}`, urgency)
}

func respTopic(relevant bool) string {
	return fmt.Sprintf(`{"relevant": %t, "confidence": 0.9, "reason": "test"}`, relevant)
}

const (
	respNoEvent = `{"has_event": false, "event_type": "", "event_date": "", "confidence": 0.0}`
	respCrisis  = `{"crisis_response": "Stop. Call 988 (Suicide & Crisis Lifeline) right now - I am not letting you go.", "suggestions": ["Call 988 now"], "follow_up_questions": ["Are you safe right now?"]}`
)

// mockStore is an in-memory store.Store with call recording.
type mockStore struct {
	mu sync.Mutex

	profile     model.UserProfile
	profileErrs []error // popped per call; nil entry means success
	turns       []model.Turn
	turnsErr    error
	lastTurn    time.Time
	events      []model.Event
	users       []string
	hasSummary  bool

	appended    []model.Turn
	upserted    []model.Event
	suggestions []model.Suggestions
	summaries   map[string]string
	cleanups    int
}

func newMockStore() *mockStore {
	return &mockStore{
		profile:   model.UserProfile{Name: "Alice", Timezone: "UTC"},
		summaries: make(map[string]string),
	}
}

func (s *mockStore) GetUserProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.profileErrs) > 0 {
		err := s.profileErrs[0]
		s.profileErrs = s.profileErrs[1:]
		if err != nil {
			return model.UserProfile{}, err
		}
	}
	return s.profile, nil
}

func (s *mockStore) GetRecentTurns(ctx context.Context, userID string, bucket model.DateBucket, limit int) ([]model.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turnsErr != nil {
		return nil, s.turnsErr
	}
	return s.turns, nil
}

func (s *mockStore) AppendTurn(ctx context.Context, userID string, bucket model.DateBucket, turn model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, turn)
	return nil
}

func (s *mockStore) LastTurnTime(ctx context.Context, userID string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTurn, nil
}

func (s *mockStore) UpsertEvent(ctx context.Context, userID string, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, ev)
	return nil
}

func (s *mockStore) Events(ctx context.Context, userID string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events, nil
}

func (s *mockStore) DeletePastEvents(ctx context.Context, userID string, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanups++
	return nil
}

func (s *mockStore) UpsertLatestSuggestions(ctx context.Context, userID string, sg model.Suggestions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = append(s.suggestions, sg)
	return nil
}

func (s *mockStore) SaveDailySummary(ctx context.Context, userID, date, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[userID+"/"+date] = text
	return nil
}

func (s *mockStore) DailySummaryExists(ctx context.Context, userID, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSummary, nil
}

func (s *mockStore) ListUserIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users, nil
}

func (s *mockStore) Ping(ctx context.Context) error { return nil }
func (s *mockStore) Close() error                   { return nil }

func (s *mockStore) appendedTurns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.appended))
	copy(out, s.appended)
	return out
}

func (s *mockStore) upsertedEvents() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.upserted))
	copy(out, s.upserted)
	return out
}

func (s *mockStore) storedSuggestions() []model.Suggestions {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Suggestions, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}
