package scoring

import (
	"context"
	"sync"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

// MemoryRepo is an in-memory repository for tests and STORE_DRIVER=memory.
// Writes made inside utils.MemoryTransactor are undone on rollback.
type MemoryRepo struct {
	mu    sync.Mutex
	order []string
	recs  map[string]*ScoreRecord
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{recs: map[string]*ScoreRecord{}} }

func (r *MemoryRepo) Open(ctx context.Context, userID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recs[userID]; ok {
		return apperr.Conflictf("score record for %s already exists", userID)
	}
	r.recs[userID] = &ScoreRecord{UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.order = append(r.order, userID)

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.recs, userID)
		for i, id := range r.order {
			if id == userID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	})
	return nil
}

func (r *MemoryRepo) Increment(ctx context.Context, userID string, d Delta, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[userID]
	if !ok {
		return false, nil
	}
	prev := *rec
	rec.Points += d.Points
	rec.Submissions += d.Submissions
	rec.Reviews += d.Reviews
	rec.UpdatedAt = now

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		*rec = prev
	})
	return true, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[userID]
	if !ok {
		return ScoreRecord{}, apperr.NotFoundf("score record for %s", userID)
	}
	return *rec, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ScoreRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.recs[id])
	}
	return out, nil
}
