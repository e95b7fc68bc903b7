package cache

import (
	"context"
	"errors"
	"time"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces aggregate snapshot keys; every key is
// agg:<tenant_id>:<view> so one SCAN wipes a tenant.
const keyPrefix = "agg:"

// RedisAggregateCache stores aggregate snapshots in redis.
type RedisAggregateCache struct {
	client *redis.Client
}

// NewRedisAggregateCache wraps a redis client as an AggregateCache. A nil
// client returns nil, and callers treat a nil cache as disabled.
func NewRedisAggregateCache(client *redis.Client) *RedisAggregateCache {
	if client == nil {
		return nil
	}
	return &RedisAggregateCache{client: client}
}

var _ portssvc.AggregateCache = (*RedisAggregateCache)(nil)

// Get retrieves a snapshot. A missing key is not an error.
func (c *RedisAggregateCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// Set stores a snapshot with a TTL.
func (c *RedisAggregateCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// DeleteTenant removes every snapshot of one tenant.
func (c *RedisAggregateCache) DeleteTenant(ctx context.Context, tenantID string) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+tenantID+":*", 100).Iterator()
	pipe := c.client.Pipeline()
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}
