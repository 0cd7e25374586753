package trainings

import (
	"context"
	"testing"

	"knowledge-network/internal/apperr"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/scoring"
	"knowledge-network/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var consultant = auth.Identity{ID: "u1", Name: "Ana", Role: "Consultant"}

func newService(t *testing.T) (*Service, *scoring.Ledger) {
	t.Helper()
	ledger := scoring.NewLedger(scoring.NewMemoryRepo(), nil)
	require.NoError(t, ledger.Open(context.Background(), consultant.ID))
	return NewService(NewMemoryRepo(Catalog()...), utils.NewMemoryTransactor(), ledger), ledger
}

func TestList_ReturnsCatalogSortedByID(t *testing.T) {
	svc, _ := newService(t)
	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, "train-001", out[0].ID)
	assert.Equal(t, "train-005", out[4].ID)
	assert.Empty(t, out[0].CompletedBy)
}

func TestComplete_CreditsOnlyOnce(t *testing.T) {
	svc, ledger := newService(t)
	ctx := context.Background()

	tr, err := svc.Complete(ctx, consultant, "train-002")
	require.NoError(t, err)
	assert.Equal(t, []string{consultant.ID}, tr.CompletedBy)

	tr, err = svc.Complete(ctx, consultant, "train-002")
	require.NoError(t, err)
	assert.Equal(t, []string{consultant.ID}, tr.CompletedBy)

	rec, err := ledger.Get(ctx, consultant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, scoring.TrainingPoints, rec.Points)

	_, err = svc.Complete(ctx, consultant, "train-003")
	require.NoError(t, err)
	rec, err = ledger.Get(ctx, consultant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2*scoring.TrainingPoints, rec.Points)
}

func TestComplete_UnknownTraining(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Complete(context.Background(), consultant, "train-999")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

type failingCrediter struct{}

func (failingCrediter) CreditTraining(context.Context, string) error {
	return apperr.Storage(assert.AnError)
}

func TestComplete_CreditFailureRollsBackCompletion(t *testing.T) {
	repo := NewMemoryRepo(Catalog()...)
	svc := NewService(repo, utils.NewMemoryTransactor(), failingCrediter{})

	_, err := svc.Complete(context.Background(), consultant, "train-001")
	assert.ErrorIs(t, err, apperr.ErrStorage)

	tr, err := repo.Get(context.Background(), "train-001")
	require.NoError(t, err)
	assert.Empty(t, tr.CompletedBy)
}
