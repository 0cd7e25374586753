package scoring

import (
	"context"
	"time"
)

// Repository persists score records. Increment is the only mutation path
// after Open; there is no Delete.
type Repository interface {
	// Open inserts a zeroed record. Returns apperr.ErrConflict if one exists.
	Open(ctx context.Context, userID string, now time.Time) error
	// Increment applies d to the user's record. found is false when no
	// record exists; that is not an error.
	Increment(ctx context.Context, userID string, d Delta, now time.Time) (found bool, err error)
	Get(ctx context.Context, userID string) (ScoreRecord, error)
	// List returns every record in insertion order.
	List(ctx context.Context) ([]ScoreRecord, error)
}

// Directory resolves display names for the leaderboard.
type Directory interface {
	Lookup(ctx context.Context, userIDs []string) (map[string]Member, error)
}
