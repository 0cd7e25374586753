package locks

import (
	"context"
	"sync"
)

// Memory is an in-process keyed mutex. Entries are reference counted and
// dropped when the last holder or waiter leaves.
type Memory struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemory() *Memory { return &Memory{slots: map[string]*slot{}} }

func (m *Memory) Lock(ctx context.Context, key string) (func(), error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	m.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		m.leave(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			m.leave(key, s)
		})
	}, nil
}

func (m *Memory) leave(key string, s *slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}
