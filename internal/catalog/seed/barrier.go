package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockClient is the subset of the redis client used by RedisBarrier.
type LockClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisBarrier is a single-instance startup barrier backed by SET NX PX.
type RedisBarrier struct {
	client LockClient
	key    string
	ttl    time.Duration
}

// NewRedisBarrier returns a barrier guarding key for at most ttl.
func NewRedisBarrier(client LockClient, key string, ttl time.Duration) *RedisBarrier {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisBarrier{client: client, key: key, ttl: ttl}
}

// Acquire tries to take the lock. When acquired is false another instance
// holds it and release is nil.
func (b *RedisBarrier) Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error) {
	token := uuid.NewString()
	ok, err := b.client.SetNX(ctx, b.key, token, b.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire seed lock %q: %w", b.key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, b.client, []string{b.key}, token).Err(); err != nil {
			return fmt.Errorf("release seed lock %q: %w", b.key, err)
		}
		return nil
	}, true, nil
}
