package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rediscache "github.com/bkyoung/goodtogo/internal/adapter/cache/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, _, err := rediscache.Open(fmt.Sprintf("redis://%s/0", mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "pr:a:b:1:head", []byte("sha-1"), time.Minute))

	val, ok, err := c.Get(ctx, "pr:a:b:1:head")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sha-1", string(val))
}

func TestCache_Get_Miss(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ExpiredEntryReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "pr:a:b:1:head", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "pr:a:b:1:meta", []byte("y"), time.Minute))
	require.NoError(t, c.Set(ctx, "pr:a:b:2:head", []byte("z"), time.Minute))

	require.NoError(t, c.InvalidatePattern(ctx, "pr:a:b:1"))

	_, ok, err := c.Get(ctx, "pr:a:b:1:head")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "pr:a:b:2:head")
	require.NoError(t, err)
	assert.True(t, ok, "unrelated PR keys must survive invalidation")
}

func TestCache_Stats(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, _, _ = c.Get(ctx, "k")
	_, _, _ = c.Get(ctx, "missing")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestOpen_WarnsOnUnencryptedCredentialedURL(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	c, warn, err := rediscache.Open(fmt.Sprintf("redis://:s3cret@%s/0", mr.Addr()))
	require.NoError(t, err)
	defer c.Close()

	assert.Contains(t, warn, "unencrypted transport")
	assert.NotContains(t, warn, "s3cret")
}
