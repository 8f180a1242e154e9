package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisConn *redis.Client

// NewRedis returns a client backed by a process-local miniredis instance.
// The institution cache and the sync lock run against it in the feature suite.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		miniRedis, err := miniredis.Run()
		if err != nil {
			panic(err)
		}

		redisConn = redis.NewClient(&redis.Options{
			Addr: miniRedis.Addr(),
		})
	})

	return redisConn
}

// ClearRedis flushes every key so cached institutions and stale sync locks
// never leak between scenarios.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.TODO()).Err()
}
