package utils

import (
	"context"
	"sync"
)

// Transactor executes a unit of work atomically: either every write made
// through ctx inside fn is kept, or none is.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type journalKey struct{}

type journal struct {
	undo []func()
}

// OnRollback registers an undo step for the current in-memory unit of work.
// Outside MemoryTransactor.WithinTx it is a no-op.
func OnRollback(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok && j != nil {
		j.undo = append(j.undo, undo)
	}
}

// MemoryTransactor gives in-memory repositories the same all-or-nothing
// contract as SQLTransactor. Units of work are serialized; on error or panic
// the registered undo steps run in reverse order.
type MemoryTransactor struct {
	mu sync.Mutex
}

func NewMemoryTransactor() *MemoryTransactor { return &MemoryTransactor{} }

func (t *MemoryTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
		if err != nil {
			j.rollback()
		}
	}()

	return fn(context.WithValue(ctx, journalKey{}, j))
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
