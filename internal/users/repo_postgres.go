package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/utils"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const userColumns = `id, email, password_hash, name, role, expertise, region, is_active, created_at, updated_at`

func (r *PostgresRepo) Insert(ctx context.Context, u User) error {
	exp := u.Expertise
	if exp == nil {
		exp = []string{}
	}
	b, err := json.Marshal(exp)
	if err != nil {
		return apperr.Validationf("expertise not serializable: %v", err)
	}

	const q = `
INSERT INTO users (` + userColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`
	_, err = utils.Conn(ctx, r.db).ExecContext(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, string(b), u.Region, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return apperr.Conflictf("email %s already registered", u.Email)
		}
		return apperr.Storage(err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id, "user "+id)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email, "user with email "+email)
}

func (r *PostgresRepo) getOne(ctx context.Context, q, arg, what string) (User, error) {
	u, err := scanUser(utils.Conn(ctx, r.db).QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFoundf("%s", what)
		}
		return User{}, apperr.Storage(err)
	}
	return u, nil
}

func (r *PostgresRepo) GetMany(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := `SELECT ` + userColumns + ` FROM users WHERE id IN (` + strings.Join(ph, ",") + `)`
	return r.query(ctx, q, args...)
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY created_at ASC, id ASC`)
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := utils.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, apperr.Storage(err)
	}
	return n, nil
}

func (r *PostgresRepo) query(ctx context.Context, q string, args ...any) ([]User, error) {
	rows, err := utils.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (User, error) {
	var (
		u   User
		exp []byte
	)
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &exp, &u.Region, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.Expertise = []string{}
	if len(exp) > 0 {
		if err := json.Unmarshal(exp, &u.Expertise); err != nil {
			return User{}, fmt.Errorf("decode expertise: %w", err)
		}
	}
	return u, nil
}
