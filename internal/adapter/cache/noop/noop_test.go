package noop_test

import (
	"context"
	"testing"
	"time"

	"github.com/bkyoung/goodtogo/internal/adapter/cache/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := noop.New()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_StatsStayZero(t *testing.T) {
	ctx := context.Background()
	c := noop.New()

	_, _, _ = c.Get(ctx, "k")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
}
