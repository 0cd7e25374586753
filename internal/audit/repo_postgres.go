package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

// PostgresRepo writes to audit_entries. The table rejects UPDATE and DELETE.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	changes := []byte("{}")
	if len(e.Changes) > 0 {
		b, err := json.Marshal(e.Changes)
		if err != nil {
			return apperr.Validationf("audit changes not serializable: %v", err)
		}
		changes = b
	}

	const q = `
INSERT INTO audit_entries (id, action, user_id, user_name, target_type, target_id, changes, "timestamp")
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	_, err := utils.Conn(ctx, r.db).ExecContext(ctx, q,
		e.ID,
		string(e.Action),
		e.UserID,
		e.UserName,
		e.TargetType,
		e.TargetID,
		string(changes),
		e.Timestamp,
	)
	return apperr.Storage(err)
}

func (r *PostgresRepo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `
SELECT id, action, user_id, user_name, target_type, target_id, changes, "timestamp"
FROM audit_entries
ORDER BY "timestamp" DESC, seq DESC
LIMIT $1
`
	rows, err := utils.Conn(ctx, r.db).QueryContext(ctx, q, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			action  string
			changes []byte
		)
		if err := rows.Scan(&e.ID, &action, &e.UserID, &e.UserName, &e.TargetType, &e.TargetID, &changes, &e.Timestamp); err != nil {
			return nil, apperr.Storage(err)
		}
		e.Action = Action(action)
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, apperr.Storage(err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}
