package users

import (
	"context"
	"slices"
	"sync"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]User
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]User{}, byEmail: map[string]string{}}
}

func (r *MemoryRepo) Insert(ctx context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return apperr.Conflictf("email %s already registered", u.Email)
	}
	if _, ok := r.byID[u.ID]; ok {
		return apperr.Conflictf("user %s already exists", u.ID)
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	r.order = append(r.order, u.ID)

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.byID, u.ID)
		delete(r.byEmail, u.Email)
		if i := slices.Index(r.order, u.ID); i >= 0 {
			r.order = slices.Delete(r.order, i, i+1)
		}
	})
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, apperr.NotFoundf("user %s", id)
	}
	return cloneUser(u), nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return User{}, apperr.NotFoundf("user with email %s", email)
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryRepo) GetMany(ctx context.Context, ids []string) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		if u := r.byID[id]; u.IsActive {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func cloneUser(u User) User {
	u.Expertise = slices.Clone(u.Expertise)
	if u.Expertise == nil {
		u.Expertise = []string{}
	}
	return u
}
