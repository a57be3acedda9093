package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been acted on so that
// repeated deliveries of the same event or repeated submissions of the
// same payment request are suppressed.
type IdempotencyStore interface {
	// MarkProcessed records a key with a TTL. It returns true if the key
	// was newly recorded and false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has already been recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// IdempotencyConfig controls duplicate suppression behavior
type IdempotencyConfig struct {
	// TTL is how long a recorded key blocks duplicates. After expiry the
	// same key is accepted again.
	TTL time.Duration

	// Enabled turns duplicate suppression on or off
	Enabled bool
}

// DefaultIdempotencyConfig returns the default duplicate suppression settings
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
