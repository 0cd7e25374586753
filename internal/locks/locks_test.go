package locks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SerializesSameKey(t *testing.T) {
	m := NewMemory()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Lock(context.Background(), "asset-1")
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
	assert.Empty(t, m.slots)
}

func TestMemory_DifferentKeysDoNotBlock(t *testing.T) {
	m := NewMemory()
	r1, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer r1()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r2, err := m.Lock(ctx, "b")
	require.NoError(t, err)
	r2()
}

func TestMemory_ContextCancelWhileWaiting(t *testing.T) {
	m := NewMemory()
	release, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release() // idempotent
	assert.Empty(t, m.slots)
}

func TestMemory_KeyRequired(t *testing.T) {
	_, err := NewMemory().Lock(context.Background(), "")
	assert.ErrorIs(t, err, ErrKeyRequired)
}

func TestNewRedis_Validates(t *testing.T) {
	_, err := NewRedis(nil, "review:", time.Second)
	assert.Error(t, err)
	assert.NotNil(t, releaseScript)
}
