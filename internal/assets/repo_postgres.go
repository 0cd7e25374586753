package assets

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

// PostgresRepo stores assets in knowledge_assets. Tags are a JSONB array.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const assetColumns = `id, title, description, content, category, region, author, author_id, ` +
	`status, review_status, reviewed_by, review_comments, tags, created_at, updated_at`

func (r *PostgresRepo) Insert(ctx context.Context, a Asset) error {
	tags, err := encodeTags(a.Tags)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO knowledge_assets (` + assetColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`
	_, err = utils.Conn(ctx, r.db).ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.Content, a.Category, a.Region, a.Author, a.AuthorID,
		string(a.Status), string(a.ReviewStatus), a.ReviewedBy, a.ReviewComments, tags,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return apperr.Conflictf("asset %s already exists", a.ID)
		}
		return apperr.Storage(err)
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Asset, error) {
	return r.get(ctx, id, false)
}

func (r *PostgresRepo) GetForUpdate(ctx context.Context, id string) (Asset, error) {
	return r.get(ctx, id, true)
}

func (r *PostgresRepo) get(ctx context.Context, id string, forUpdate bool) (Asset, error) {
	q := `SELECT ` + assetColumns + ` FROM knowledge_assets WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	a, err := scanAsset(utils.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Asset{}, apperr.NotFoundf("knowledge asset %s", id)
		}
		return Asset{}, apperr.Storage(err)
	}
	return a, nil
}

func (r *PostgresRepo) Update(ctx context.Context, a Asset) error {
	tags, err := encodeTags(a.Tags)
	if err != nil {
		return err
	}
	const q = `
UPDATE knowledge_assets
SET title = $2,
    description = $3,
    content = $4,
    category = $5,
    region = $6,
    status = $7,
    review_status = $8,
    reviewed_by = $9,
    review_comments = $10,
    tags = $11,
    updated_at = $12
WHERE id = $1
`
	res, err := utils.Conn(ctx, r.db).ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.Content, a.Category, a.Region,
		string(a.Status), string(a.ReviewStatus), a.ReviewedBy, a.ReviewComments, tags, a.UpdatedAt,
	)
	return expectOneRow(res, err, a.ID)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := utils.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM knowledge_assets WHERE id = $1`, id)
	return expectOneRow(res, err, id)
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Asset, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.AuthorID != "" {
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if term := strings.TrimSpace(f.Term); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%[1]d OR description ILIKE $%[1]d OR content ILIKE $%[1]d)", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + assetColumns + ` FROM knowledge_assets`)
	if len(conds) > 0 {
		b.WriteString(` WHERE ` + strings.Join(conds, " AND "))
	}
	if f.NewestFirst {
		b.WriteString(` ORDER BY created_at DESC, id DESC`)
	} else {
		b.WriteString(` ORDER BY created_at ASC, id ASC`)
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	}

	rows, err := utils.Conn(ctx, r.db).QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	out := []Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(s rowScanner) (Asset, error) {
	var (
		a                    Asset
		status, reviewStatus string
		reviewedBy, comments sql.NullString
		tags                 []byte
	)
	err := s.Scan(
		&a.ID, &a.Title, &a.Description, &a.Content, &a.Category, &a.Region, &a.Author, &a.AuthorID,
		&status, &reviewStatus, &reviewedBy, &comments, &tags, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Asset{}, err
	}
	a.Status = Status(status)
	a.ReviewStatus = Status(reviewStatus)
	if reviewedBy.Valid {
		a.ReviewedBy = &reviewedBy.String
	}
	if comments.Valid {
		a.ReviewComments = &comments.String
	}
	a.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &a.Tags); err != nil {
			return Asset{}, fmt.Errorf("decode tags: %w", err)
		}
	}
	return a, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", apperr.Validationf("tags not serializable: %v", err)
	}
	return string(b), nil
}

func expectOneRow(res sql.Result, err error, id string) error {
	if err != nil {
		return apperr.Storage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if n == 0 {
		return apperr.NotFoundf("knowledge asset %s", id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
