package shop

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
)

const pricesCacheKey = "filif:shop:prices"

// CachedPrices keeps a copy of all overrides in Redis for ttl. Reads fall through to the
// backing store on a miss or when Redis fails; writes go to the backing store and drop
// the cached copy.
type CachedPrices struct {
	backing PriceStore
	rdb     redis.UniversalClient
	ttl     time.Duration
}

// NewCachedPrices wraps backing with a Redis cache.
func NewCachedPrices(backing PriceStore, rdb redis.UniversalClient, ttl time.Duration) *CachedPrices {
	return &CachedPrices{backing: backing, rdb: rdb, ttl: ttl}
}

var _ PriceStore = (*CachedPrices)(nil)

func (c *CachedPrices) All(ctx context.Context) (map[string]int, error) {
	raw, err := c.rdb.Get(ctx, pricesCacheKey).Bytes()
	switch {
	case err == nil:
		var prices map[string]int
		if jsonErr := json.Unmarshal(raw, &prices); jsonErr == nil {
			return copyPrices(prices), nil
		}
		applog.LogWarn(ctx, "discarding corrupt price cache entry")
	case !errors.Is(err, redis.Nil):
		applog.LogWarn(ctx, "price cache read failed", zap.Error(err))
	}

	prices, err := c.backing.All(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(prices); err == nil {
		if err := c.rdb.Set(ctx, pricesCacheKey, raw, c.ttl).Err(); err != nil {
			applog.LogWarn(ctx, "price cache write failed", zap.Error(err))
		}
	}
	return prices, nil
}

func (c *CachedPrices) Set(ctx context.Context, itemID string, price int) error {
	if err := c.backing.Set(ctx, itemID, price); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, pricesCacheKey).Err(); err != nil {
		applog.LogWarn(ctx, "price cache invalidation failed", zap.Error(err))
	}
	return nil
}
