package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// staleRetention is how long a payload stays available for rate-limit
// fallback after its freshness window ends.
const staleRetention = time.Hour

// MarketCache implements ports.MarketCache on Redis. Each payload is written
// twice: under the key itself with the freshness TTL, and under a ":stale"
// suffix with a long retention so an expired payload can still be served when
// the upstream rate-limits.
type MarketCache struct {
	client *goredis.Client
}

// NewMarketCache creates a MarketCache.
func NewMarketCache(client *goredis.Client) *MarketCache {
	return &MarketCache{client: client}
}

// Get returns a payload still inside its freshness window.
func (c *MarketCache) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	return c.get(ctx, key)
}

// GetStale returns the last stored payload regardless of freshness.
func (c *MarketCache) GetStale(ctx context.Context, key string) (json.RawMessage, bool, error) {
	return c.get(ctx, key+":stale")
}

func (c *MarketCache) get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return json.RawMessage(val), true, nil
}

// Set stores a payload with the given freshness TTL plus a stale copy.
func (c *MarketCache) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, []byte(payload), ttl)
	pipe.Set(ctx, key+":stale", []byte(payload), staleRetention)
	_, err := pipe.Exec(ctx)
	return err
}
