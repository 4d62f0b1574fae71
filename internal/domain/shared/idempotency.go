package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed keys to prevent duplicate dispatch.
// The queue dispatcher uses it to make sure one durable task is only handed
// to one worker per dispatch round.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}
