package shared

import (
	"context"
	"time"
)

// IdempotencyStore records processed webhook idempotency keys so the same
// (platform, event_id) pair is processed at most once.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for webhook idempotency handling
type IdempotencyConfig struct {
	// TTL is how long processed keys are remembered. After this duration
	// the same key can be processed again. Default: 24 hours.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled.
	// Default: true.
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
