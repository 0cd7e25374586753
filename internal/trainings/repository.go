package trainings

import (
	"context"
	"time"
)

type Repository interface {
	// List returns every module with its completions, ordered by id.
	List(ctx context.Context) ([]Training, error)
	Get(ctx context.Context, id string) (Training, error)
	// AddCompletion reports false when userID had already completed the module.
	AddCompletion(ctx context.Context, trainingID, userID string, at time.Time) (bool, error)
	Count(ctx context.Context) (int, error)
}
