package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/cache"
)

func TestMemoryJSONRoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory("equipstore")
	key := c.GenerateKey("method", "ship-1")
	assert.Equal(t, "equipstore:method:ship-1", key)

	type v struct{ Cost float64 }
	require.NoError(t, cache.SetJSON(ctx, c, key, v{Cost: 2500}, time.Minute))

	var got v
	assert.True(t, cache.GetJSON(ctx, c, key, &got))
	assert.Equal(t, 2500.0, got.Cost)

	require.NoError(t, c.Delete(ctx, key))
	assert.False(t, cache.GetJSON(ctx, c, key, &got))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory("t")
	require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	s, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestNilCacheIsAMiss(t *testing.T) {
	var dst map[string]any
	assert.False(t, cache.GetJSON(context.Background(), nil, "k", &dst))
	assert.NoError(t, cache.SetJSON(context.Background(), nil, "k", 1, time.Second))
}
