package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAddr is where tests expect a disposable Redis instance.
const RedisAddr = "127.0.0.1:6379"

// RedisClient returns a client on a scratch database, or skips the test when Redis
// is not reachable. The database is flushed before and after the test.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if !reachable(RedisAddr) {
		t.Skip("Redis not available")
	}

	rdb := redis.NewClient(&redis.Options{Addr: RedisAddr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.FlushDB(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("Redis not usable: %v", err)
	}
	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		_ = rdb.Close()
	})
	return rdb
}
