package store

import (
	"context"
	"time"

	"github.com/soreahq/sorea/internal/model"
)

// Store is the gateway to the remote document store. All data is keyed by an
// opaque user ID, with conversation history partitioned into date buckets.
//
// Reads have read-or-create-default semantics where noted; writes are
// independent appends or commutative merges, so callers never need
// read-modify-write transactions across them.
type Store interface {
	// GetUserProfile never reports "not found": a default profile is created
	// and returned on first access.
	GetUserProfile(ctx context.Context, userID string) (model.UserProfile, error)

	// GetRecentTurns returns up to limit turns for the bucket in timestamp
	// order, oldest first. When the bucket holds no turns it falls back to
	// the most recent bucket that has any; no data at all yields an empty
	// slice, not an error.
	GetRecentTurns(ctx context.Context, userID string, bucket model.DateBucket, limit int) ([]model.Turn, error)

	// AppendTurn stores a complete turn and bumps the bucket's counters.
	AppendTurn(ctx context.Context, userID string, bucket model.DateBucket, turn model.Turn) error

	// LastTurnTime reports the newest turn timestamp across all buckets, or
	// the zero time when the user has no history.
	LastTurnTime(ctx context.Context, userID string) (time.Time, error)

	UpsertEvent(ctx context.Context, userID string, ev model.Event) error
	Events(ctx context.Context, userID string) ([]model.Event, error)
	DeletePastEvents(ctx context.Context, userID string, before time.Time) error

	UpsertLatestSuggestions(ctx context.Context, userID string, s model.Suggestions) error

	SaveDailySummary(ctx context.Context, userID, date, text string) error
	DailySummaryExists(ctx context.Context, userID, date string) (bool, error)

	ListUserIDs(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}
