// Package cache provides byte-level caching backends for PerturbViz.
//
// The pipeline only caches interaction-database responses: a STRING query
// for the same seed genes and parameters returns the same network, and the
// remote service is slow and rate limited. Three backends are available:
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for teams running many analyses
//   - [NullCache]: disables caching (--no-cache)
//
// Keys are built with [HashKey] so arbitrary query parameters map to
// fixed-length, filesystem-safe names.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached network stays fresh. STRING publishes new
// releases a few times a year, so a week is conservative.
const DefaultTTL = 7 * 24 * time.Hour

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
