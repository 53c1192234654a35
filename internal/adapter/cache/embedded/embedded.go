// Package embedded implements the cache port on top of a local bbolt
// database file, the default backend: single file, no network dependency,
// safe for a single analyzer process.
package embedded

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bkyoung/goodtogo/internal/cache"
	"go.etcd.io/bbolt"
)

const dirMode = 0o700
const fileMode = 0o600

var entriesBucket = []byte("entries")

// Cache implements cache.Cache backed by bbolt.
type Cache struct {
	db     *bbolt.DB
	hits   int64
	misses int64
}

var _ cache.Cache = (*Cache)(nil)

// Open creates or opens the cache database at path. The parent directory
// is created with mode 0700; if the file already exists with broader
// permissions than 0600, it is tightened and a warning returned via warn
// for the caller to log.
func Open(path string) (c *Cache, warn string, err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, "", fmt.Errorf("create cache dir: %w", err)
		}
	}

	if info, statErr := os.Stat(path); statErr == nil {
		if info.Mode().Perm()&^fileMode != 0 {
			if err := os.Chmod(path, fileMode); err != nil {
				return nil, "", fmt.Errorf("tighten cache file permissions: %w", err)
			}
			warn = fmt.Sprintf("cache file %s had permissions %o, tightened to %o", path, info.Mode().Perm(), fileMode)
		}
	}

	db, err := bbolt.Open(path, fileMode, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, warn, fmt.Errorf("open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, warn, fmt.Errorf("create entries bucket: %w", err)
	}

	return &Cache{db: db}, warn, nil
}

type record struct {
	value     []byte
	expiresAt int64
}

func encode(value []byte, expiresAt time.Time) []byte {
	ts := []byte(fmt.Sprintf("%020d|", expiresAt.Unix()))
	return append(ts, value...)
}

func decode(raw []byte) (record, error) {
	for i, b := range raw {
		if b == '|' {
			var expiresAt int64
			if _, err := fmt.Sscanf(string(raw[:i]), "%020d", &expiresAt); err != nil {
				return record{}, fmt.Errorf("decode entry timestamp: %w", err)
			}
			return record{value: raw[i+1:], expiresAt: expiresAt}, nil
		}
	}
	return record{}, fmt.Errorf("malformed cache entry")
}

// Get returns the stored value for key, or ok=false on a miss or expired entry.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket).Get([]byte(key))
		if b != nil {
			raw = append([]byte(nil), b...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	if raw == nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}

	rec, err := decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	if time.Now().Unix() >= rec.expiresAt {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}

	atomic.AddInt64(&c.hits, 1)
	return rec.value, true, nil
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	raw := encode(value, time.Now().Add(ttl))
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(entriesBucket).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// InvalidatePattern removes every key with the given prefix.
func (c *Cache) InvalidatePattern(_ context.Context, prefix string) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		cur := b.Cursor()
		var toDelete [][]byte
		for k, _ := cur.Seek([]byte(prefix)); k != nil && hasPrefix(k, prefix); k, _ = cur.Next() {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate prefix %q: %w", prefix, err)
	}
	return nil
}

func hasPrefix(key []byte, prefix string) bool {
	if len(key) < len(prefix) {
		return false
	}
	return string(key[:len(prefix)]) == prefix
}

// CleanupExpired performs a bulk delete of expired entries.
func (c *Cache) CleanupExpired(_ context.Context) error {
	now := time.Now().Unix()
	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		cur := b.Cursor()
		var toDelete [][]byte
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			rec, err := decode(v)
			if err != nil {
				continue
			}
			if now >= rec.expiresAt {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup expired entries: %w", err)
	}
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

// Close releases the underlying bbolt handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
