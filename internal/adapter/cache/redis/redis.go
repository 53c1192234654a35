// Package redis implements the cache port against a remote Redis instance,
// addressed by URL. It is the optional shared-cache backend used when
// multiple analyzer processes should see the same entries.
package redis

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/bkyoung/goodtogo/internal/cache"
	goredis "github.com/redis/go-redis/v9"
)

// Cache implements cache.Cache against Redis. Keys carry their own TTL via
// Redis's native expiry, so a miss and an expired read are indistinguishable
// to the caller, matching the port's contract.
type Cache struct {
	client *goredis.Client
	hits   int64
	misses int64
}

var _ cache.Cache = (*Cache)(nil)

// Open parses addr as a redis:// (or rediss://) URL and returns a connected
// Cache. If addr embeds credentials and the scheme is unencrypted (redis://
// rather than rediss://), warn is populated for the caller to log.
func Open(addr string) (c *Cache, warn string, err error) {
	opts, err := goredis.ParseURL(addr)
	if err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}

	if u, parseErr := url.Parse(addr); parseErr == nil {
		if u.User != nil && u.Scheme != "rediss" {
			warn = fmt.Sprintf("redis cache %s carries credentials over an unencrypted transport (%s); use rediss:// for TLS", redactedHost(u), u.Scheme)
		}
	}

	client := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, warn, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client}, warn, nil
}

func redactedHost(u *url.URL) string {
	return fmt.Sprintf("%s://<REDACTED>@%s%s", u.Scheme, u.Host, u.Path)
}

// Get returns the stored value for key, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	atomic.AddInt64(&c.hits, 1)
	return val, true, nil
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// InvalidatePattern removes every key with the given prefix using SCAN so
// large keyspaces are not blocked by a single KEYS call.
func (c *Cache) InvalidatePattern(ctx context.Context, prefix string) error {
	var cursor uint64
	pattern := prefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan prefix %q: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys for prefix %q: %w", prefix, err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// CleanupExpired is a no-op: Redis expires keys natively.
func (c *Cache) CleanupExpired(_ context.Context) error {
	return nil
}

// Stats reports cumulative hit/miss counters for this process's lifetime.
func (c *Cache) Stats(_ context.Context) (cache.Stats, error) {
	h := atomic.LoadInt64(&c.hits)
	m := atomic.LoadInt64(&c.misses)
	total := h + m
	if total == 0 {
		return cache.Stats{Hits: h, Misses: m}, nil
	}
	return cache.Stats{Hits: h, Misses: m, HitRate: float64(h) / float64(total)}, nil
}

// Close closes the underlying client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
