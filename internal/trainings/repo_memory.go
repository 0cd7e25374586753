package trainings

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	trainings map[string]Training
}

func NewMemoryRepo(seed ...Training) *MemoryRepo {
	r := &MemoryRepo{trainings: map[string]Training{}}
	for _, t := range seed {
		t.CompletedBy = slices.Clone(t.CompletedBy)
		r.trainings[t.ID] = t
	}
	return r
}

func (r *MemoryRepo) List(ctx context.Context) ([]Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Training, 0, len(r.trainings))
	for _, t := range r.trainings {
		out = append(out, cloneTraining(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trainings[id]
	if !ok {
		return Training{}, apperr.NotFoundf("training %s", id)
	}
	return cloneTraining(t), nil
}

func (r *MemoryRepo) AddCompletion(ctx context.Context, trainingID, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trainings[trainingID]
	if !ok {
		return false, apperr.NotFoundf("training %s", trainingID)
	}
	if t.CompletedByUser(userID) {
		return false, nil
	}
	t.CompletedBy = append(slices.Clone(t.CompletedBy), userID)
	r.trainings[trainingID] = t

	utils.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		cur := r.trainings[trainingID]
		if i := slices.Index(cur.CompletedBy, userID); i >= 0 {
			cur.CompletedBy = slices.Delete(slices.Clone(cur.CompletedBy), i, i+1)
			r.trainings[trainingID] = cur
		}
	})
	return true, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trainings), nil
}

func cloneTraining(t Training) Training {
	t.CompletedBy = slices.Clone(t.CompletedBy)
	if t.CompletedBy == nil {
		t.CompletedBy = []string{}
	}
	return t
}
