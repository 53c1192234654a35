// Package noop implements the cache port as a pure miss, used for
// one-shot runs and tests where persistence between invocations is
// neither available nor desired.
package noop

import (
	"context"
	"time"

	"github.com/bkyoung/goodtogo/internal/cache"
)

// Cache is a no-op implementation of cache.Cache. Every Get misses; Set,
// InvalidatePattern, and CleanupExpired are accepted and discarded.
type Cache struct{}

var _ cache.Cache = Cache{}

// New returns a no-op cache.
func New() Cache {
	return Cache{}
}

// Get always reports a miss.
func (Cache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (Cache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// InvalidatePattern is a no-op.
func (Cache) InvalidatePattern(_ context.Context, _ string) error {
	return nil
}

// CleanupExpired is a no-op.
func (Cache) CleanupExpired(_ context.Context) error {
	return nil
}

// Stats always reports zero activity.
func (Cache) Stats(_ context.Context) (cache.Stats, error) {
	return cache.Stats{}, nil
}

// Close is a no-op.
func (Cache) Close() error {
	return nil
}
