package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/model"
)

// summaryTurnLimit bounds how much of a day's conversation feeds the
// summarizer.
const summaryTurnLimit = 200

// RunDaily performs per-user maintenance: summarize the most recent
// conversation day (skipped when today's summary already exists) and clean
// up past-dated events. One user's failure never stops the others.
func (e *Engine) RunDaily(ctx context.Context) error {
	users, err := e.Store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for daily maintenance: %w", err)
	}

	for _, userID := range users {
		if err := e.runDailyForUser(ctx, userID); err != nil {
			e.log.Error("daily maintenance failed for user",
				zap.String("user", userID), zap.Error(err))
		}
	}

	e.log.Info("daily maintenance finished", zap.Int("users", len(users)))
	return nil
}

func (e *Engine) runDailyForUser(ctx context.Context, userID string) error {
	now := time.Now().UTC()

	if err := e.summarizeLastDay(ctx, userID, now); err != nil {
		return err
	}

	return e.Store.DeletePastEvents(ctx, userID, now)
}

func (e *Engine) summarizeLastDay(ctx context.Context, userID string, now time.Time) error {
	todayISO := now.Format("2006-01-02")

	exists, err := e.Store.DailySummaryExists(ctx, userID, todayISO)
	if err != nil {
		return fmt.Errorf("summary existence check failed: %w", err)
	}
	if exists {
		return nil
	}

	lastActive, err := e.Store.LastTurnTime(ctx, userID)
	if err != nil {
		return fmt.Errorf("last-activity lookup failed: %w", err)
	}
	if lastActive.IsZero() {
		return nil
	}

	turns, err := e.Store.GetRecentTurns(ctx, userID, model.BucketFor(lastActive), summaryTurnLimit)
	if err != nil {
		return fmt.Errorf("history fetch failed: %w", err)
	}

	text := e.Summarizer.Summarize(ctx, turns)
	if text == "" {
		return nil
	}

	return e.Store.SaveDailySummary(ctx, userID, todayISO, text)
}
