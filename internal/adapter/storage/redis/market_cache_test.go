package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewMarketCache(client)
	ctx := context.Background()

	payload := json.RawMessage(`[{"symbol":"BTCUSDT","lastPrice":"64000"}]`)

	// Get before set => miss
	_, ok, err := cache.Get(ctx, "market:coins")
	assert.NoError(t, err)
	assert.False(t, ok)

	err = cache.Set(ctx, "market:coins", payload, 5*time.Second)
	require.NoError(t, err)

	got, ok, err := cache.Get(ctx, "market:coins")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))
}

func TestMarketCache_StaleSurvivesFreshnessExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewMarketCache(client)
	ctx := context.Background()

	payload := json.RawMessage(`[{"symbol":"ETHUSDT"}]`)
	require.NoError(t, cache.Set(ctx, "market:coins", payload, 5*time.Second))

	// Past the freshness window the fresh copy is gone but the stale copy
	// still answers.
	s.FastForward(6 * time.Second)

	_, ok, err := cache.Get(ctx, "market:coins")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := cache.GetStale(ctx, "market:coins")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))
}

func TestMarketCache_StaleEventuallyExpires(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewMarketCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "market:coins", json.RawMessage(`[]`), 5*time.Second))
	s.FastForward(2 * time.Hour)

	_, ok, err := cache.GetStale(ctx, "market:coins")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarketCache_SetOverwrites(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewMarketCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "market:stats:BTCUSDT", json.RawMessage(`{"v":1}`), 5*time.Second))
	require.NoError(t, cache.Set(ctx, "market:stats:BTCUSDT", json.RawMessage(`{"v":2}`), 5*time.Second))

	got, ok, err := cache.GetStale(ctx, "market:stats:BTCUSDT")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(got))
}
