package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
-- KEYS[1] = lock key
-- ARGV[1] = owner token
-- Deletes the key only if this owner still holds it.
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// Redis is a cross-instance lock built on SET NX PX. The TTL bounds how long
// a crashed holder can block others; release only deletes the caller's own token.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, ttl time.Duration) (*Redis, error) {
	if rdb == nil {
		return nil, errors.New("locks: redis client is nil")
	}
	if ttl <= 0 {
		return nil, errors.New("locks: ttl must be > 0")
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl, retry: 25 * time.Millisecond}, nil
}

func (l *Redis) Lock(ctx context.Context, key string) (func(), error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	full := l.prefix + key
	token := uuid.NewString()

	t := time.NewTicker(l.retry)
	defer t.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("locks: acquire %s: %w", full, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return func() {
		// Release must not depend on the request context, which may already be cancelled.
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(relCtx, l.rdb, []string{full}, token).Err()
	}, nil
}
