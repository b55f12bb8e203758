package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/config"
	"github.com/soreahq/sorea/internal/model"
)

// RedisStore is the local/dev backend. Layout mirrors the firestore one:
// profiles as hashes, turns as per-bucket lists, plus a sorted set indexing
// buckets by last activity for the prior-bucket fallback.
type RedisStore struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedis(cfg config.StoreConfig, log *zap.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisStore{rdb: rdb, log: log}, nil
}

type rdTurn struct {
	User        string    `json:"user"`
	Model       string    `json:"model"`
	Emotion     string    `json:"emotion_detected,omitempty"`
	Urgency     int       `json:"urgency_level"`
	Suggestions []string  `json:"suggestions,omitempty"`
	FollowUps   []string  `json:"follow_up_questions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func userKey(userID, suffix string) string {
	return fmt.Sprintf("user:%s:%s", userID, suffix)
}

func (s *RedisStore) GetUserProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	key := userKey(userID, "profile")
	data, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to read profile for %s: %w", userID, err)
	}

	if len(data) > 0 {
		profile := model.UserProfile{Name: model.DefaultName, Timezone: model.DefaultTimezone}
		if v := data["name"]; v != "" {
			profile.Name = v
		}
		if v := data["timezone"]; v != "" {
			profile.Timezone = v
		}
		return profile, nil
	}

	profile := model.UserProfile{Name: model.DefaultName, Timezone: model.DefaultTimezone}
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, "name", profile.Name, "timezone", profile.Timezone)
	pipe.SAdd(ctx, "users", userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to create default profile for %s: %w", userID, err)
	}
	return profile, nil
}

func (s *RedisStore) GetRecentTurns(ctx context.Context, userID string, bucket model.DateBucket, limit int) ([]model.Turn, error) {
	turns, err := s.readBucket(ctx, userID, bucket, limit)
	if err != nil {
		return nil, err
	}
	if len(turns) > 0 {
		return turns, nil
	}

	latest, err := s.rdb.ZRevRange(ctx, userKey(userID, "buckets"), 0, 0).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to find latest bucket for %s: %w", userID, err)
	}
	if len(latest) == 0 || model.DateBucket(latest[0]) == bucket {
		return nil, nil
	}
	return s.readBucket(ctx, userID, model.DateBucket(latest[0]), limit)
}

func (s *RedisStore) readBucket(ctx context.Context, userID string, bucket model.DateBucket, limit int) ([]model.Turn, error) {
	raw, err := s.rdb.LRange(ctx, userKey(userID, string(bucket)), int64(-limit), -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read turns for %s/%s: %w", userID, bucket, err)
	}

	turns := make([]model.Turn, 0, len(raw))
	for _, item := range raw {
		var t rdTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			s.log.Warn("skipping unparsable turn", zap.String("user", userID), zap.Error(err))
			continue
		}
		turns = append(turns, model.Turn{
			User:      model.UserMessage{Content: t.User, Emotion: t.Emotion, Urgency: t.Urgency},
			Assistant: model.AssistantMessage{Content: t.Model, Suggestions: t.Suggestions, FollowUps: t.FollowUps},
			Timestamp: t.Timestamp,
		})
	}
	return turns, nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, userID string, bucket model.DateBucket, turn model.Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(rdTurn{
		User:        turn.User.Content,
		Model:       turn.Assistant.Content,
		Emotion:     turn.User.Emotion,
		Urgency:     turn.User.Urgency,
		Suggestions: turn.Assistant.Suggestions,
		FollowUps:   turn.Assistant.FollowUps,
		Timestamp:   turn.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to encode turn: %w", err)
	}

	metaKey := userKey(userID, string(bucket)+":meta")
	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, userKey(userID, string(bucket)), payload)
	pipe.ZAdd(ctx, userKey(userID, "buckets"), redis.Z{
		Score:  float64(turn.Timestamp.Unix()),
		Member: string(bucket),
	})
	pipe.HIncrBy(ctx, metaKey, "chatPairCount", 1)
	pipe.HIncrBy(ctx, metaKey, "messageCount", 2)
	pipe.HSet(ctx, metaKey, "lastChatAt", turn.Timestamp.Format(time.RFC3339))
	pipe.SAdd(ctx, "users", userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append turn for %s/%s: %w", userID, bucket, err)
	}
	return nil
}

func (s *RedisStore) LastTurnTime(ctx context.Context, userID string) (time.Time, error) {
	res, err := s.rdb.ZRevRangeWithScores(ctx, userKey(userID, "buckets"), 0, 0).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return time.Time{}, fmt.Errorf("failed to read last turn time for %s: %w", userID, err)
	}
	if len(res) == 0 {
		return time.Time{}, nil
	}
	return time.Unix(int64(res[0].Score), 0).UTC(), nil
}

func (s *RedisStore) UpsertEvent(ctx context.Context, userID string, ev model.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := s.rdb.HSet(ctx, userKey(userID, "events"), ev.ID, payload).Err(); err != nil {
		return fmt.Errorf("failed to upsert event %s for %s: %w", ev.ID, userID, err)
	}
	return nil
}

func (s *RedisStore) Events(ctx context.Context, userID string) ([]model.Event, error) {
	raw, err := s.rdb.HGetAll(ctx, userKey(userID, "events")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read events for %s: %w", userID, err)
	}

	events := make([]model.Event, 0, len(raw))
	for id, item := range raw {
		var ev model.Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			s.log.Warn("skipping unparsable event",
				zap.String("user", userID), zap.String("event", id), zap.Error(err))
			continue
		}
		ev.ID = id
		events = append(events, ev)
	}
	return events, nil
}

func (s *RedisStore) DeletePastEvents(ctx context.Context, userID string, before time.Time) error {
	events, err := s.Events(ctx, userID)
	if err != nil {
		return err
	}

	cutoff := before.Format("2006-01-02")
	var stale []string
	for _, ev := range events {
		if ev.Date != "" && ev.Date < cutoff {
			stale = append(stale, ev.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := s.rdb.HDel(ctx, userKey(userID, "events"), stale...).Err(); err != nil {
		return fmt.Errorf("failed to delete past events for %s: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) UpsertLatestSuggestions(ctx context.Context, userID string, sg model.Suggestions) error {
	payload, err := json.Marshal(sg)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, userKey(userID, "suggestions:latest"), payload, 0)
	pipe.Incr(ctx, userKey(userID, "suggestions:update_count"))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert suggestions for %s: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) SaveDailySummary(ctx context.Context, userID, date, text string) error {
	if err := s.rdb.Set(ctx, userKey(userID, "summary:daily_"+date), text, 0).Err(); err != nil {
		return fmt.Errorf("failed to store daily summary for %s on %s: %w", userID, date, err)
	}
	return nil
}

func (s *RedisStore) DailySummaryExists(ctx context.Context, userID, date string) (bool, error) {
	n, err := s.rdb.Exists(ctx, userKey(userID, "summary:daily_"+date)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check daily summary for %s: %w", userID, err)
	}
	return n > 0, nil
}

func (s *RedisStore) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, "users").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
