// Package core coordinates the conversation pipeline: concurrent state
// fetches, topic filtering, the escalation check, reply generation, and
// best-effort persistence through the write queue.
package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/config"
	"github.com/soreahq/sorea/internal/core/classify"
	"github.com/soreahq/sorea/internal/core/crisis"
	"github.com/soreahq/sorea/internal/core/events"
	"github.com/soreahq/sorea/internal/core/notify"
	"github.com/soreahq/sorea/internal/core/suggest"
	"github.com/soreahq/sorea/internal/core/summary"
	"github.com/soreahq/sorea/internal/core/topic"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/metrics"
	"github.com/soreahq/sorea/internal/model"
	"github.com/soreahq/sorea/internal/queue"
	"github.com/soreahq/sorea/internal/store"
)

// Reserved literals for transport-level liveness checks. A [TEST]-prefixed
// message bypasses the whole pipeline without touching any external
// capability.
const (
	TestPrefix            = "[TEST]"
	TestChatReply         = "[TEST CHAT SUCCESS]"
	TestNotificationReply = "[TEST NOTIFICATION SUCCESS]"
)

type Engine struct {
	Store      store.Store
	LLM        llm.Client
	Writer     *queue.Writer
	Classifier *classify.Classifier
	Topics     *topic.Filter
	Extractor  *events.Extractor
	Greeter    *events.Greeter
	Crisis     *crisis.Responder
	Suggester  *suggest.Suggester
	Summarizer *summary.Summarizer
	Notifier   *notify.Notifier

	chat    config.ChatConfig
	persona string
	log     *zap.Logger
}

func NewEngine(st store.Store, client llm.Client, writer *queue.Writer, cfg *config.Config, log *zap.Logger) *Engine {
	p := cfg.Prompts
	return &Engine{
		Store:      st,
		LLM:        client,
		Writer:     writer,
		Classifier: classify.NewClassifier(client, p.Classify, log),
		Topics:     topic.NewFilter(client, p.Topic, log),
		Extractor:  events.NewExtractor(client, p.Events, log),
		Greeter:    events.NewGreeter(client, p.Greeting, log),
		Crisis:     crisis.NewResponder(client, p.Crisis, log),
		Suggester:  suggest.NewSuggester(client, p.Suggest, log),
		Summarizer: summary.NewSummarizer(client, p.Summary, log),
		Notifier:   notify.NewNotifier(client, p.Notify, log),
		chat:       cfg.Chat,
		persona:    p.Persona,
		log:        log,
	}
}

// Process turns one inbound message into one reply. It is total: unless the
// degraded fallback itself fails, the caller always gets a string, and
// exactly one of {sentinel, redirect, crisis, normal} per call.
func (e *Engine) Process(ctx context.Context, userID, text string) (string, error) {
	if strings.HasPrefix(text, TestPrefix) {
		metrics.IncReply("sentinel")
		return TestChatReply, nil
	}

	reply, err := e.processConcurrent(ctx, userID, text)
	if err != nil {
		e.log.Error("concurrent pipeline failed, running degraded fallback",
			zap.String("user", userID), zap.Error(err))
		metrics.PipelineFallbacks.Inc()
		return e.processDegraded(ctx, userID, text)
	}
	return reply, nil
}

func (e *Engine) processConcurrent(ctx context.Context, userID, text string) (string, error) {
	now := time.Now().UTC()
	bucket := model.BucketFor(now)

	var (
		profile    model.UserProfile
		verdict    model.Verdict
		recent     []model.Turn
		profileErr error
		turnsErr   error
	)

	// The three fetches are independent; results are combined only after all
	// finish. Completion order is unspecified.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		profile, profileErr = e.Store.GetUserProfile(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		verdict = e.Classifier.Detect(ctx, text)
	}()
	go func() {
		defer wg.Done()
		recent, turnsErr = e.Store.GetRecentTurns(ctx, userID, bucket, e.chat.HistoryLimit)
	}()
	wg.Wait()

	if profileErr != nil {
		return "", fmt.Errorf("profile fetch failed: %w", profileErr)
	}
	if turnsErr != nil {
		return "", fmt.Errorf("history fetch failed: %w", turnsErr)
	}

	topicVerdict := e.Topics.Check(ctx, e.filterWindow(recent, text))
	branch := Decide(topicVerdict, verdict)

	if branch == BranchRedirect {
		e.log.Info("redirecting out-of-scope message",
			zap.String("user", userID),
			zap.Float64("confidence", topicVerdict.Confidence),
			zap.String("reason", topicVerdict.Reason))
		reply := e.chat.Redirect
		e.enqueueTurn(userID, bucket, text, model.AssistantMessage{Content: reply}, verdict)
		metrics.IncReply("redirect")
		return reply, nil
	}

	// Start event extraction before the crisis check so it overlaps with it.
	// The buffer guarantees the goroutine exits even when nobody receives.
	eventCh := make(chan *model.Event, 1)
	go func() {
		eventCh <- e.Extractor.Extract(ctx, userID, text)
	}()

	if branch == BranchCrisis {
		e.log.Warn("crisis branch taken", zap.String("user", userID), zap.Int("urgency", verdict.Urgency))
		msg := e.Crisis.Respond(ctx, profile, text)
		e.enqueueTurn(userID, bucket, text, msg, verdict)
		metrics.IncReply("crisis")
		// The in-flight extraction is deliberately abandoned here; crisis
		// latency wins over event capture.
		return msg.Content, nil
	}

	if ev := <-eventCh; ev != nil {
		event := *ev
		e.Writer.Submit("upsert_event", func(c context.Context) error {
			return e.Store.UpsertEvent(c, userID, event)
		})
	}

	prompt := e.buildPrompt(profile, verdict, recent, text, now)
	reply, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("reply generation failed: %w", err)
	}

	e.enqueueTurn(userID, bucket, text, model.AssistantMessage{Content: reply}, verdict)
	e.enqueueSuggestions(userID, profile, verdict, recent, text)
	metrics.IncReply("normal")
	return reply, nil
}

// processDegraded re-runs the same branch priority fully sequentially. It
// does not use the write queue: side-effect writes are skipped, the caller
// still gets a reply. The fallback is not retried; its errors propagate.
func (e *Engine) processDegraded(ctx context.Context, userID, text string) (string, error) {
	now := time.Now().UTC()
	bucket := model.BucketFor(now)

	profile, err := e.Store.GetUserProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fallback profile fetch failed: %w", err)
	}
	recent, err := e.Store.GetRecentTurns(ctx, userID, bucket, e.chat.HistoryLimit)
	if err != nil {
		return "", fmt.Errorf("fallback history fetch failed: %w", err)
	}

	verdict := e.Classifier.Detect(ctx, text)
	topicVerdict := e.Topics.Check(ctx, e.filterWindow(recent, text))

	switch Decide(topicVerdict, verdict) {
	case BranchRedirect:
		metrics.IncReply("redirect")
		return e.chat.Redirect, nil

	case BranchCrisis:
		msg := e.Crisis.Respond(ctx, profile, text)
		metrics.IncReply("crisis")
		return msg.Content, nil
	}

	prompt := e.buildPrompt(profile, verdict, recent, text, now)
	reply, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("fallback reply generation failed: %w", err)
	}
	metrics.IncReply("normal")
	return reply, nil
}

// filterWindow is what the topic filter sees: the last few user messages
// from history, or the current message alone when there is none.
func (e *Engine) filterWindow(recent []model.Turn, current string) []string {
	window := e.chat.FilterWindow
	if window <= 0 {
		window = 3
	}
	if len(recent) == 0 {
		return []string{current}
	}

	start := len(recent) - window
	if start < 0 {
		start = 0
	}
	msgs := make([]string, 0, window)
	for _, turn := range recent[start:] {
		msgs = append(msgs, turn.User.Content)
	}
	return msgs
}

func (e *Engine) buildPrompt(profile model.UserProfile, verdict model.Verdict, recent []model.Turn, text string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(e.persona)

	sb.WriteString("\n\nCONVERSATION CONTEXT:\n")
	if len(recent) == 0 {
		sb.WriteString("(first conversation with this user)\n")
	}
	for _, turn := range recent {
		fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", turn.User.Content, turn.Assistant.Content)
	}

	fmt.Fprintf(&sb, "\nCURRENT USER STATE:\n- Emotion: %s\n- Urgency: %d/5\n- Name: %s\n",
		verdict.Emotion, verdict.Urgency, profile.Name)
	if len(recent) > 0 {
		fmt.Fprintf(&sb, "- Time since last exchange: %s\n", describeGap(now.Sub(recent[len(recent)-1].Timestamp)))
	}

	fmt.Fprintf(&sb, "\nThe user's new message:\n%s\n", text)
	return sb.String()
}

func describeGap(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "within the last hour"
	case d < 24*time.Hour:
		return fmt.Sprintf("about %d hours", int(d.Hours()))
	default:
		return fmt.Sprintf("about %d days", int(d.Hours()/24))
	}
}

func (e *Engine) enqueueTurn(userID string, bucket model.DateBucket, text string, assistant model.AssistantMessage, verdict model.Verdict) {
	turn := model.Turn{
		User:      model.UserMessage{Content: text, Emotion: verdict.Emotion, Urgency: verdict.Urgency},
		Assistant: assistant,
		Timestamp: time.Now().UTC(),
	}
	e.Writer.Submit("append_turn", func(c context.Context) error {
		return e.Store.AppendTurn(c, userID, bucket, turn)
	})
}

// enqueueSuggestions defers both generation and the write to the queue so
// neither delays the reply.
func (e *Engine) enqueueSuggestions(userID string, profile model.UserProfile, verdict model.Verdict, recent []model.Turn, text string) {
	e.Writer.Submit("upsert_suggestions", func(c context.Context) error {
		items := e.Suggester.Generate(c, profile, verdict, recent, text)
		return e.Store.UpsertLatestSuggestions(c, userID, model.Suggestions{
			Emotion:   verdict.Emotion,
			Urgency:   verdict.Urgency,
			Items:     items,
			UpdatedAt: time.Now().UTC(),
		})
	})
}
