package recurrence

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"slotwise/utils"
)

const horizonKeyPrefix = "recurrence:horizon:"

// RedisHorizonCache stores materialization horizons in Redis. Cache misses and
// errors just mean the next Extend call re-checks against the database.
type RedisHorizonCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisHorizonCache(client *redis.Client) *RedisHorizonCache {
	return &RedisHorizonCache{Client: client, TTL: 7 * 24 * time.Hour}
}

func (c *RedisHorizonCache) GetHorizon(ctx context.Context, ownerID string) (time.Time, bool) {
	val, err := c.Client.Get(ctx, horizonKeyPrefix+ownerID).Result()
	if err != nil {
		return time.Time{}, false
	}
	horizon, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}
	return horizon, true
}

func (c *RedisHorizonCache) SetHorizon(ctx context.Context, ownerID string, horizon time.Time) {
	if err := c.Client.Set(ctx, horizonKeyPrefix+ownerID, horizon.Format(time.RFC3339), c.TTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache materialization horizon",
			zap.String("ownerId", ownerID), zap.Error(err))
	}
}

func (c *RedisHorizonCache) Invalidate(ctx context.Context, ownerID string) {
	if err := c.Client.Del(ctx, horizonKeyPrefix+ownerID).Err(); err != nil {
		utils.GetLogger().Warn("failed to drop cached materialization horizon",
			zap.String("ownerId", ownerID), zap.Error(err))
	}
}
