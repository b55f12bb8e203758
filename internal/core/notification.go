package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/core/notify"
	"github.com/soreahq/sorea/internal/model"
)

// Notification builds a re-engagement check-in for a user. It always returns
// some caring text: failures degrade to the fixed fallback, never to an
// error. The reserved test user short-circuits without side effects.
func (e *Engine) Notification(ctx context.Context, userID string) string {
	if userID == e.chat.TestUser {
		return TestNotificationReply
	}

	profile, err := e.Store.GetUserProfile(ctx, userID)
	if err != nil {
		e.log.Warn("notification profile fetch failed", zap.String("user", userID), zap.Error(err))
		return notify.Fallback(model.DefaultName)
	}

	// Prefer an event-aware greeting when the user has pending events.
	if upcoming := e.upcomingEvents(ctx, userID); len(upcoming) > 0 {
		if greeting := e.Greeter.Greeting(ctx, profile.Name, upcoming); greeting != "" {
			return greeting
		}
	}

	lastActive, err := e.Store.LastTurnTime(ctx, userID)
	if err != nil {
		e.log.Warn("notification last-activity lookup failed", zap.String("user", userID), zap.Error(err))
		return notify.Fallback(profile.Name)
	}

	var recent []model.Turn
	if !lastActive.IsZero() {
		recent, err = e.Store.GetRecentTurns(ctx, userID, model.BucketFor(lastActive), e.chat.HistoryLimit)
		if err != nil {
			e.log.Warn("notification history fetch failed", zap.String("user", userID), zap.Error(err))
			recent = nil
		}
	}

	return e.Notifier.CheckIn(ctx, profile, lastActive, recent)
}

func (e *Engine) upcomingEvents(ctx context.Context, userID string) []model.Event {
	all, err := e.Store.Events(ctx, userID)
	if err != nil {
		e.log.Warn("event lookup failed", zap.String("user", userID), zap.Error(err))
		return nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	var upcoming []model.Event
	for _, ev := range all {
		if !ev.Completed && ev.Date >= today {
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming
}
