package scoring

import (
	"context"
	"sort"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/logger"
)

// Ledger is the only writer of score records.
//
// Invariants:
// - points change only through CreditApproval (+50) and CreditTraining (+10)
// - crediting a user without a record is a no-op, tolerating orphaned identities
//
// Credits join the caller's unit of work when ctx carries one, so a credit is
// rolled back together with the lifecycle transition that caused it.
type Ledger struct {
	repo  Repository
	dir   Directory
	clock func() time.Time
}

func NewLedger(repo Repository, dir Directory) *Ledger {
	return &Ledger{repo: repo, dir: dir, clock: time.Now}
}

// Open creates the zeroed record for a new user.
func (l *Ledger) Open(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Validationf("user id required")
	}
	return l.repo.Open(ctx, userID, l.clock().UTC())
}

// CreditSubmission counts one created asset. Awards no points.
func (l *Ledger) CreditSubmission(ctx context.Context, userID string) error {
	return l.apply(ctx, userID, Delta{Submissions: 1})
}

// CreditApproval rewards the author of an approved asset.
func (l *Ledger) CreditApproval(ctx context.Context, authorID string) error {
	return l.apply(ctx, authorID, Delta{Points: ApprovalPoints, Reviews: 1})
}

// CreditTraining rewards a first-time training completion. Callers guarantee
// one call per (user, training) pair.
func (l *Ledger) CreditTraining(ctx context.Context, userID string) error {
	return l.apply(ctx, userID, Delta{Points: TrainingPoints})
}

func (l *Ledger) apply(ctx context.Context, userID string, d Delta) error {
	found, err := l.repo.Increment(ctx, userID, d, l.clock().UTC())
	if err != nil {
		return apperr.Storage(err)
	}
	if !found {
		logger.From(ctx).Warn("score record missing, credit skipped",
			"user_id", userID, "points", d.Points, "submissions", d.Submissions, "reviews", d.Reviews)
	}
	return nil
}

// Get returns a single user's record.
func (l *Ledger) Get(ctx context.Context, userID string) (ScoreRecord, error) {
	return l.repo.Get(ctx, userID)
}

// RankedView returns every record sorted by points descending, ties kept in
// insertion order, ranked 1..N. It is display-only: failures degrade to an
// empty board, and missing identities show as "Unknown".
func (l *Ledger) RankedView(ctx context.Context) []Standing {
	log := logger.From(ctx)

	recs, err := l.repo.List(ctx)
	if err != nil {
		log.Warn("leaderboard unavailable", "err", err)
		return []Standing{}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Points > recs[j].Points
	})

	members := map[string]Member{}
	if l.dir != nil && len(recs) > 0 {
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.UserID)
		}
		m, err := l.dir.Lookup(ctx, ids)
		if err != nil {
			log.Warn("leaderboard directory lookup failed", "err", err)
		} else {
			members = m
		}
	}

	out := make([]Standing, 0, len(recs))
	for i, r := range recs {
		m, ok := members[r.UserID]
		if !ok {
			m = Member{Name: UnknownMember, Role: UnknownMember}
		}
		out = append(out, Standing{
			Rank:        i + 1,
			UserID:      r.UserID,
			UserName:    m.Name,
			UserRole:    m.Role,
			Points:      r.Points,
			Submissions: r.Submissions,
			Reviews:     r.Reviews,
		})
	}
	return out
}
