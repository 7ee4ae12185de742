// Package cache provides a small string cache for computed plan results.
// Plans are pure functions of their inputs, so entries are keyed by the
// inputs and can be served to any request with the same key.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized results under string keys.
type Cache interface {
	// Get retrieves a value; ok is false on miss or expiry.
	Get(ctx context.Context, key string) (value string, ok bool)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
