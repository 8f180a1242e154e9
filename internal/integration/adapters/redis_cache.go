package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// redisFeedCache implements the adapter.FeedCache interface on Redis.
type redisFeedCache struct {
	client *redis.Client
}

// NewRedisFeedCache creates a new Redis-backed feed cache instance.
func NewRedisFeedCache(client *redis.Client) adapter.FeedCache {
	return &redisFeedCache{client: client}
}

// Get retrieves a cached value.
func (c *redisFeedCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value with a time to live.
func (c *redisFeedCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a cached value.
func (c *redisFeedCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// redisSyncLocker implements the adapter.SyncLocker interface with SET NX.
// The TTL bounds how long a crashed sync can hold its lock.
type redisSyncLocker struct {
	client *redis.Client
}

// NewRedisSyncLocker creates a new Redis-backed sync locker instance.
func NewRedisSyncLocker(client *redis.Client) adapter.SyncLocker {
	return &redisSyncLocker{client: client}
}

// Acquire takes the lock for a key.
func (l *redisSyncLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

// Release frees the lock for a key.
func (l *redisSyncLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
