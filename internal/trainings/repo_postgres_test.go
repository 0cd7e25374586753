package trainings

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_AddCompletionIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Unix(1700000000, 0).UTC()
	repo := NewPostgresRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (training_id, user_id) DO NOTHING")).
		WithArgs("train-001", "u1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	added, err := repo.AddCompletion(context.Background(), "train-001", "u1", at)
	require.NoError(t, err)
	assert.True(t, added)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (training_id, user_id) DO NOTHING")).
		WithArgs("train-001", "u1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	added, err = repo.AddCompletion(context.Background(), "train-001", "u1", at)
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_ListAttachesCompletions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Unix(1700000000, 0).UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM trainings ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "duration", "created_at"}).
			AddRow("train-001", "Cloud", "c", "45 mins", now).
			AddRow("train-002", "Agile", "c", "60 mins", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM training_completions")).
		WillReturnRows(sqlmock.NewRows([]string{"training_id", "user_id"}).
			AddRow("train-002", "u1").
			AddRow("train-002", "u2"))

	out, err := NewPostgresRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Empty(t, out[0].CompletedBy)
	assert.Equal(t, []string{"u1", "u2"}, out[1].CompletedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}
