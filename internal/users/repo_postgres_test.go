package users

import (
	"context"
	"regexp"
	"testing"
	"time"

	"knowledge-network/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "password_hash", "name", "role", "expertise", "region", "is_active", "created_at", "updated_at"}

func TestPostgresRepo_InsertDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = NewPostgresRepo(db).Insert(context.Background(), User{ID: "u1", Email: "a@b.c"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestPostgresRepo_GetManyUsesPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Unix(1700000000, 0).UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id IN ($1,$2)")).
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "a@b.c", "hash", "Ana", "Consultant", []byte(`["cloud"]`), "", true, now, now))

	out, err := NewPostgresRepo(db).GetMany(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"cloud"}, out[0].Expertise)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetByEmailMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("x@y.z").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err = NewPostgresRepo(db).GetByEmail(context.Background(), "x@y.z")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
