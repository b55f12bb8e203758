package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/soreahq/sorea/internal/config"
	"github.com/soreahq/sorea/internal/model"
)

// FirestoreStore keeps user data under users/{id}, with conversations in
// users/{id}/conversations/{bucket}/chat, events, suggestions and summaries
// as sibling subcollections.
type FirestoreStore struct {
	client *firestore.Client
	log    *zap.Logger
}

func NewFirestore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}

	return &FirestoreStore{client: client, log: log}, nil
}

type fsTurn struct {
	User        string    `firestore:"user"`
	Model       string    `firestore:"model"`
	Emotion     string    `firestore:"emotion_detected,omitempty"`
	Urgency     int       `firestore:"urgency_level"`
	Suggestions []string  `firestore:"suggestions,omitempty"`
	FollowUps   []string  `firestore:"follow_up_questions,omitempty"`
	Timestamp   time.Time `firestore:"timestamp,serverTimestamp"`
}

type fsEvent struct {
	Type        string    `firestore:"eventType"`
	Description string    `firestore:"description"`
	Date        string    `firestore:"eventDate"`
	MentionedAt time.Time `firestore:"mentionedAt"`
	Completed   bool      `firestore:"isCompleted"`
}

func (s *FirestoreStore) userDoc(userID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID)
}

func (s *FirestoreStore) GetUserProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	ref := s.userDoc(userID)
	snap, err := ref.Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return model.UserProfile{}, fmt.Errorf("failed to read profile for %s: %w", userID, err)
	}

	if snap != nil && snap.Exists() {
		data := snap.Data()
		profile := model.UserProfile{Name: model.DefaultName, Timezone: model.DefaultTimezone}
		if v, ok := data["name"].(string); ok && v != "" {
			profile.Name = v
		}
		if v, ok := data["timezone"].(string); ok && v != "" {
			profile.Timezone = v
		}
		return profile, nil
	}

	// First contact: create the default profile.
	profile := model.UserProfile{Name: model.DefaultName, Timezone: model.DefaultTimezone}
	if _, err := ref.Set(ctx, map[string]interface{}{
		"name":     profile.Name,
		"timezone": profile.Timezone,
	}); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to create default profile for %s: %w", userID, err)
	}
	return profile, nil
}

func (s *FirestoreStore) convDoc(userID string, bucket model.DateBucket) *firestore.DocumentRef {
	return s.userDoc(userID).Collection("conversations").Doc(string(bucket))
}

func (s *FirestoreStore) GetRecentTurns(ctx context.Context, userID string, bucket model.DateBucket, limit int) ([]model.Turn, error) {
	turns, err := s.readBucket(ctx, userID, bucket, limit)
	if err != nil {
		return nil, err
	}
	if len(turns) > 0 {
		return turns, nil
	}

	// Empty bucket: fall back to the most recent conversation day.
	latest, err := s.latestBucket(ctx, userID)
	if err != nil || latest == "" || latest == bucket {
		return nil, err
	}
	return s.readBucket(ctx, userID, latest, limit)
}

func (s *FirestoreStore) readBucket(ctx context.Context, userID string, bucket model.DateBucket, limit int) ([]model.Turn, error) {
	iter := s.convDoc(userID, bucket).Collection("chat").
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var turns []model.Turn
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read turns for %s/%s: %w", userID, bucket, err)
		}

		var raw fsTurn
		if err := snap.DataTo(&raw); err != nil {
			s.log.Warn("skipping unparsable turn",
				zap.String("user", userID), zap.String("doc", snap.Ref.ID), zap.Error(err))
			continue
		}
		turns = append(turns, model.Turn{
			User:      model.UserMessage{Content: raw.User, Emotion: raw.Emotion, Urgency: raw.Urgency},
			Assistant: model.AssistantMessage{Content: raw.Model, Suggestions: raw.Suggestions, FollowUps: raw.FollowUps},
			Timestamp: raw.Timestamp,
		})
	}

	// Query returned newest first; reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *FirestoreStore) latestBucket(ctx context.Context, userID string) (model.DateBucket, error) {
	iter := s.userDoc(userID).Collection("conversations").
		OrderBy("lastChatAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find latest conversation for %s: %w", userID, err)
	}
	return model.DateBucket(snap.Ref.ID), nil
}

func (s *FirestoreStore) AppendTurn(ctx context.Context, userID string, bucket model.DateBucket, turn model.Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}

	conv := s.convDoc(userID, bucket)

	// Ensure the conversation doc exists and bump its counters. Increments
	// are commutative, so concurrent appends do not need a transaction.
	if _, err := conv.Set(ctx, map[string]interface{}{
		"startDate":     bucket.Date().Format("2006-01-02"),
		"chatPairCount": firestore.Increment(1),
		"messageCount":  firestore.Increment(2), // user + model
		"lastChatAt":    firestore.ServerTimestamp,
	}, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update conversation doc for %s/%s: %w", userID, bucket, err)
	}

	if _, _, err := conv.Collection("chat").Add(ctx, fsTurn{
		User:        turn.User.Content,
		Model:       turn.Assistant.Content,
		Emotion:     turn.User.Emotion,
		Urgency:     turn.User.Urgency,
		Suggestions: turn.Assistant.Suggestions,
		FollowUps:   turn.Assistant.FollowUps,
		Timestamp:   turn.Timestamp,
	}); err != nil {
		return fmt.Errorf("failed to add chat pair for %s/%s: %w", userID, bucket, err)
	}

	return nil
}

func (s *FirestoreStore) LastTurnTime(ctx context.Context, userID string) (time.Time, error) {
	iter := s.userDoc(userID).Collection("conversations").
		OrderBy("lastChatAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last chat time for %s: %w", userID, err)
	}

	if v, ok := snap.Data()["lastChatAt"].(time.Time); ok {
		return v, nil
	}
	return time.Time{}, nil
}

func (s *FirestoreStore) UpsertEvent(ctx context.Context, userID string, ev model.Event) error {
	_, err := s.userDoc(userID).Collection("events").Doc(ev.ID).Set(ctx, fsEvent{
		Type:        ev.Type,
		Description: ev.Description,
		Date:        ev.Date,
		MentionedAt: ev.MentionedAt,
		Completed:   ev.Completed,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert event %s for %s: %w", ev.ID, userID, err)
	}
	return nil
}

func (s *FirestoreStore) Events(ctx context.Context, userID string) ([]model.Event, error) {
	iter := s.userDoc(userID).Collection("events").Documents(ctx)
	defer iter.Stop()

	var events []model.Event
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read events for %s: %w", userID, err)
		}

		var raw fsEvent
		if err := snap.DataTo(&raw); err != nil {
			s.log.Warn("skipping unparsable event",
				zap.String("user", userID), zap.String("doc", snap.Ref.ID), zap.Error(err))
			continue
		}
		events = append(events, model.Event{
			ID:          snap.Ref.ID,
			Type:        raw.Type,
			Description: raw.Description,
			Date:        raw.Date,
			MentionedAt: raw.MentionedAt,
			Completed:   raw.Completed,
		})
	}
	return events, nil
}

func (s *FirestoreStore) DeletePastEvents(ctx context.Context, userID string, before time.Time) error {
	events, err := s.Events(ctx, userID)
	if err != nil {
		return err
	}

	cutoff := before.Format("2006-01-02")
	for _, ev := range events {
		if ev.Date == "" || ev.Date >= cutoff {
			continue
		}
		if _, err := s.userDoc(userID).Collection("events").Doc(ev.ID).Delete(ctx); err != nil {
			s.log.Warn("failed to delete past event",
				zap.String("user", userID), zap.String("event", ev.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *FirestoreStore) UpsertLatestSuggestions(ctx context.Context, userID string, sg model.Suggestions) error {
	_, err := s.userDoc(userID).Collection("suggestions").Doc("latest").Set(ctx, map[string]interface{}{
		"emotion":       sg.Emotion,
		"urgency_level": sg.Urgency,
		"suggestions":   sg.Items,
		"timestamp":     firestore.ServerTimestamp,
		"updateCount":   firestore.Increment(1),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to upsert suggestions for %s: %w", userID, err)
	}
	return nil
}

func (s *FirestoreStore) summaryDoc(userID, date string) *firestore.DocumentRef {
	return s.userDoc(userID).Collection("summaries").Doc("daily_" + date)
}

func (s *FirestoreStore) SaveDailySummary(ctx context.Context, userID, date, text string) error {
	_, err := s.summaryDoc(userID, date).Set(ctx, map[string]interface{}{
		"summary_text": text,
		"created_at":   firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to store daily summary for %s on %s: %w", userID, date, err)
	}
	return nil
}

func (s *FirestoreStore) DailySummaryExists(ctx context.Context, userID, date string) (bool, error) {
	snap, err := s.summaryDoc(userID, date).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check daily summary for %s: %w", userID, err)
	}
	return snap.Exists(), nil
}

func (s *FirestoreStore) ListUserIDs(ctx context.Context) ([]string, error) {
	iter := s.client.Collection("users").DocumentRefs(ctx)

	var ids []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collection("users").Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
