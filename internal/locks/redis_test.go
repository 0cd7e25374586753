package locks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l, err := NewRedis(rdb, "review:", ttl)
	require.NoError(t, err)
	l.retry = 2 * time.Millisecond
	return l, mr
}

func TestRedis_SerializesSameKey(t *testing.T) {
	l, mr := newTestRedis(t, 5*time.Second)
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			release, err := l.Lock(ctx, "asset:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside)
	assert.False(t, mr.Exists("review:asset:1"))
}

func TestRedis_ReleaseDeletesOwnKey(t *testing.T) {
	l, mr := newTestRedis(t, time.Second)

	release, err := l.Lock(context.Background(), "asset:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("review:asset:1"))
	assert.Greater(t, mr.TTL("review:asset:1"), time.Duration(0))

	release()
	assert.False(t, mr.Exists("review:asset:1"))
}

func TestRedis_StaleReleaseKeepsNewHolder(t *testing.T) {
	l, mr := newTestRedis(t, time.Second)
	ctx := context.Background()

	stale, err := l.Lock(ctx, "asset:1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists("review:asset:1"))

	current, err := l.Lock(ctx, "asset:1")
	require.NoError(t, err)
	token, err := mr.Get("review:asset:1")
	require.NoError(t, err)

	stale()
	got, err := mr.Get("review:asset:1")
	require.NoError(t, err)
	assert.Equal(t, token, got)

	current()
	assert.False(t, mr.Exists("review:asset:1"))
}

func TestRedis_ContendedLockHonoursDeadline(t *testing.T) {
	l, mr := newTestRedis(t, 5*time.Second)

	release, err := l.Lock(context.Background(), "asset:1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "asset:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, mr.Exists("review:asset:1"))
}

func TestRedis_CancelledContextIsNotWrapped(t *testing.T) {
	l, _ := newTestRedis(t, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Lock(ctx, "asset:1")
	assert.Equal(t, context.Canceled, err)
}

func TestRedis_KeyRequired(t *testing.T) {
	l, _ := newTestRedis(t, time.Second)
	_, err := l.Lock(context.Background(), "")
	assert.ErrorIs(t, err, ErrKeyRequired)
}
