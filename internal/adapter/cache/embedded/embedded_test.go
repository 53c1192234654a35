package embedded_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bkyoung/goodtogo/internal/adapter/cache/embedded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _, err := embedded.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Set(ctx, "pr:a:b:1:head", []byte("sha-1"), time.Minute))

	val, ok, err := c.Get(ctx, "pr:a:b:1:head")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sha-1", string(val))
}

func TestCache_Get_Miss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _, err := embedded.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ExpiredEntryReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _, err := embedded.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _, err := embedded.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Set(ctx, "pr:a:b:1:head", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "pr:a:b:1:meta", []byte("y"), time.Minute))
	require.NoError(t, c.Set(ctx, "pr:a:b:2:head", []byte("z"), time.Minute))

	require.NoError(t, c.InvalidatePattern(ctx, "pr:a:b:1"))

	_, ok, err := c.Get(ctx, "pr:a:b:1:head")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "pr:a:b:1:meta")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "pr:a:b:2:head")
	require.NoError(t, err)
	assert.True(t, ok, "unrelated PR keys must survive invalidation")
}

func TestCache_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _, err := embedded.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Set(ctx, "stale", []byte("x"), -time.Second))
	require.NoError(t, c.Set(ctx, "fresh", []byte("y"), time.Minute))

	require.NoError(t, c.CleanupExpired(ctx))

	_, ok, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_Stats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _, err := embedded.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, _, _ = c.Get(ctx, "k")
	_, _, _ = c.Get(ctx, "missing")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestOpen_CreatesParentDirAndTightensFilePerms(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested", "cache.db")

	c, _, err := embedded.Open(nested)
	require.NoError(t, err)
	defer c.Close()

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	parentInfo, err := os.Stat(filepath.Dir(nested))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), parentInfo.Mode().Perm())
}
