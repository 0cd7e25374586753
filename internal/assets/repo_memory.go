package assets

import (
	"context"
	"slices"
	"strings"
	"sync"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

// MemoryRepo is an in-memory repository for tests and STORE_DRIVER=memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	order  []string
	assets map[string]Asset
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{assets: map[string]Asset{}} }

func (r *MemoryRepo) Insert(ctx context.Context, a Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[a.ID]; ok {
		return apperr.Conflictf("asset %s already exists", a.ID)
	}
	r.assets[a.ID] = clone(a)
	r.order = append(r.order, a.ID)

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.remove(a.ID)
	})
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, apperr.NotFoundf("knowledge asset %s", id)
	}
	return clone(a), nil
}

// GetForUpdate relies on the caller's lock; the memory store has no row locks.
func (r *MemoryRepo) GetForUpdate(ctx context.Context, id string) (Asset, error) {
	return r.Get(ctx, id)
}

func (r *MemoryRepo) Update(ctx context.Context, a Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.assets[a.ID]
	if !ok {
		return apperr.NotFoundf("knowledge asset %s", a.ID)
	}
	r.assets[a.ID] = clone(a)

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.assets[prev.ID] = prev
	})
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.assets[id]
	if !ok {
		return apperr.NotFoundf("knowledge asset %s", id)
	}
	pos := slices.Index(r.order, id)
	r.remove(id)

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.assets[id] = prev
		r.order = slices.Insert(r.order, min(pos, len(r.order)), id)
	})
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(f.Term))
	out := []Asset{}
	for i := range r.order {
		idx := i
		if f.NewestFirst {
			idx = len(r.order) - 1 - i
		}
		a := r.assets[r.order[idx]]
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.AuthorID != "" && a.AuthorID != f.AuthorID {
			continue
		}
		if term != "" && !matches(a, term) {
			continue
		}
		out = append(out, clone(a))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) remove(id string) {
	delete(r.assets, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func matches(a Asset, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(a.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(a.Description), lowerTerm) ||
		strings.Contains(strings.ToLower(a.Content), lowerTerm)
}

func clone(a Asset) Asset {
	a.Tags = slices.Clone(a.Tags)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.ReviewedBy != nil {
		v := *a.ReviewedBy
		a.ReviewedBy = &v
	}
	if a.ReviewComments != nil {
		v := *a.ReviewComments
		a.ReviewComments = &v
	}
	return a
}
