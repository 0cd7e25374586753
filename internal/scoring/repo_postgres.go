package scoring

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

// PostgresRepo stores records in score_records. seq preserves insertion
// order for leaderboard tie-breaking.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Open(ctx context.Context, userID string, now time.Time) error {
	const q = `
INSERT INTO score_records (user_id, points, submissions, reviews, created_at, updated_at)
VALUES ($1, 0, 0, 0, $2, $2)
`
	if _, err := utils.Conn(ctx, r.db).ExecContext(ctx, q, userID, now); err != nil {
		if utils.IsUniqueViolation(err) {
			return apperr.Conflictf("score record for %s already exists", userID)
		}
		return apperr.Storage(err)
	}
	return nil
}

func (r *PostgresRepo) Increment(ctx context.Context, userID string, d Delta, now time.Time) (bool, error) {
	const q = `
UPDATE score_records
SET points = points + $2,
    submissions = submissions + $3,
    reviews = reviews + $4,
    updated_at = $5
WHERE user_id = $1
`
	res, err := utils.Conn(ctx, r.db).ExecContext(ctx, q, userID, d.Points, d.Submissions, d.Reviews, now)
	if err != nil {
		return false, apperr.Storage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Storage(err)
	}
	return n > 0, nil
}

func (r *PostgresRepo) Get(ctx context.Context, userID string) (ScoreRecord, error) {
	const q = `
SELECT user_id, points, submissions, reviews, created_at, updated_at
FROM score_records
WHERE user_id = $1
`
	var s ScoreRecord
	err := utils.Conn(ctx, r.db).QueryRowContext(ctx, q, userID).Scan(
		&s.UserID, &s.Points, &s.Submissions, &s.Reviews, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ScoreRecord{}, apperr.NotFoundf("score record for %s", userID)
		}
		return ScoreRecord{}, apperr.Storage(err)
	}
	return s, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]ScoreRecord, error) {
	const q = `
SELECT user_id, points, submissions, reviews, created_at, updated_at
FROM score_records
ORDER BY seq ASC
`
	rows, err := utils.Conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var s ScoreRecord
		if err := rows.Scan(&s.UserID, &s.Points, &s.Submissions, &s.Reviews, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, apperr.Storage(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}
