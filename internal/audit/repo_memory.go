package audit

import (
	"context"
	"sort"
	"sync"

	"knowledge-network/pkg/utils"
)

// MemoryRepo is an in-memory append-only repository for tests and
// STORE_DRIVER=memory.
type MemoryRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, cloneEntry(e))

	id := e.ID
	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i := len(r.entries) - 1; i >= 0; i-- {
			if r.entries[i].ID == id {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[len(out)-1-i] = cloneEntry(e)
	}
	// Newest appended first; stable keeps that order among equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Entries returns every entry in append order.
func (r *MemoryRepo) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneEntry(e Entry) Entry {
	if e.Changes != nil {
		c := make(map[string]any, len(e.Changes))
		for k, v := range e.Changes {
			c[k] = v
		}
		e.Changes = c
	}
	return e
}
