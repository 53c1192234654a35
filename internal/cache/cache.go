// Package cache defines the cache port: a tiered key-value store with
// per-key-class TTLs, used to avoid refetching PR metadata, comments, and
// CI status that have not changed since the last analysis.
package cache

import (
	"context"
	"time"
)

// Default TTLs per key class, per the cache key space.
const (
	TTLHead      = 5 * time.Minute
	TTLMeta      = 5 * time.Minute
	TTLComment   = 24 * time.Hour
	TTLThread    = 24 * time.Hour
	TTLCIPending = 5 * time.Minute
	TTLCIFinal   = 24 * time.Hour
)

// Stats summarizes cache effectiveness for a run.
type Stats struct {
	Hits    int64
	Misses  int64
	HitRate float64
}

// Cache is the port every backend (embedded, remote, no-op) implements.
// get/set must be atomic against concurrent readers; expired entries read
// as a miss rather than returning stale data.
type Cache interface {
	// Get returns the stored value for key, or ok=false on a miss or
	// expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// InvalidatePattern removes every key with the given prefix. Called
	// when a PR's head SHA changes.
	InvalidatePattern(ctx context.Context, prefix string) error

	// CleanupExpired performs a periodic bulk delete of expired entries.
	CleanupExpired(ctx context.Context) error

	// Stats reports cumulative hit/miss counters.
	Stats(ctx context.Context) (Stats, error)

	// Close releases any underlying resources.
	Close() error
}
