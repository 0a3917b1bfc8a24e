package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rentzy/internal/app/dto"
)

// StatsCache stores dashboard snapshots in Redis as JSON with a short
// TTL. Invalidation from write paths is best effort; the TTL bounds
// staleness when it is missed.
type StatsCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewStatsCache(client redis.UniversalClient, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) GetStats(ctx context.Context, key string) (dto.StatsSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return dto.StatsSnapshot{}, false, nil
		}
		return dto.StatsSnapshot{}, false, err
	}
	var snap dto.StatsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return dto.StatsSnapshot{}, false, err
	}
	return snap, true, nil
}

func (c *StatsCache) SetStats(ctx context.Context, key string, snap dto.StatsSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
