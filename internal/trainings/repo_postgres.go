package trainings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) List(ctx context.Context) ([]Training, error) {
	conn := utils.Conn(ctx, r.db)

	rows, err := conn.QueryContext(ctx, `SELECT id, title, content, duration, created_at FROM trainings ORDER BY id`)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	out := []Training{}
	index := map[string]int{}
	for rows.Next() {
		t := Training{CompletedBy: []string{}}
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.Duration, &t.CreatedAt); err != nil {
			return nil, apperr.Storage(err)
		}
		index[t.ID] = len(out)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}

	crows, err := conn.QueryContext(ctx, `SELECT training_id, user_id FROM training_completions ORDER BY completed_at, user_id`)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer crows.Close()
	for crows.Next() {
		var tid, uid string
		if err := crows.Scan(&tid, &uid); err != nil {
			return nil, apperr.Storage(err)
		}
		if i, ok := index[tid]; ok {
			out[i].CompletedBy = append(out[i].CompletedBy, uid)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Training, error) {
	conn := utils.Conn(ctx, r.db)

	t := Training{CompletedBy: []string{}}
	err := conn.QueryRowContext(ctx,
		`SELECT id, title, content, duration, created_at FROM trainings WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Content, &t.Duration, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Training{}, apperr.NotFoundf("training %s", id)
		}
		return Training{}, apperr.Storage(err)
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT user_id FROM training_completions WHERE training_id = $1 ORDER BY completed_at, user_id`, id)
	if err != nil {
		return Training{}, apperr.Storage(err)
	}
	defer rows.Close()
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return Training{}, apperr.Storage(err)
		}
		t.CompletedBy = append(t.CompletedBy, uid)
	}
	if err := rows.Err(); err != nil {
		return Training{}, apperr.Storage(err)
	}
	return t, nil
}

func (r *PostgresRepo) AddCompletion(ctx context.Context, trainingID, userID string, at time.Time) (bool, error) {
	const q = `
INSERT INTO training_completions (training_id, user_id, completed_at)
VALUES ($1, $2, $3)
ON CONFLICT (training_id, user_id) DO NOTHING
`
	res, err := utils.Conn(ctx, r.db).ExecContext(ctx, q, trainingID, userID, at)
	if err != nil {
		return false, apperr.Storage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Storage(err)
	}
	return n > 0, nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := utils.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM trainings`).Scan(&n); err != nil {
		return 0, apperr.Storage(err)
	}
	return n, nil
}
