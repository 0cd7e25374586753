package reporting

import (
	"context"
	"errors"
	"testing"

	"knowledge-network/internal/assets"

	"github.com/stretchr/testify/assert"
)

type assetList []assets.Asset

func (l assetList) List(context.Context) ([]assets.Asset, error) { return l, nil }

type count struct {
	n   int
	err error
}

func (c count) Count(context.Context) (int, error) { return c.n, c.err }

// newest first, as the lifecycle engine returns them
var sample = assetList{
	{ID: "6", AuthorID: "carol", Category: "Guide", Status: assets.StatusPending},
	{ID: "5", AuthorID: "bob", Category: "", Status: assets.StatusRejected},
	{ID: "4", AuthorID: "bob", Category: "Template", Status: assets.StatusApproved},
	{ID: "3", AuthorID: "alice", Category: "Document", Status: assets.StatusApproved},
	{ID: "2", AuthorID: "carol", Category: "Document", Status: assets.StatusPending},
	{ID: "1", AuthorID: "alice", Category: "Document", Status: assets.StatusPending},
}

func TestStatistics_Aggregates(t *testing.T) {
	svc := NewService(sample, count{n: 4}, count{n: 5})

	got := svc.Statistics(context.Background())
	assert.Equal(t, 6, got.TotalAssets)
	assert.Equal(t, 2, got.ApprovedAssets)
	assert.Equal(t, 3, got.PendingAssets)
	assert.Equal(t, 1, got.RejectedAssets)
	assert.Equal(t, 4, got.TotalUsers)
	assert.Equal(t, 5, got.TotalTrainings)
	assert.Equal(t, map[string]int{"Document": 3, "Template": 1, "Guide": 1, UnknownCategory: 1}, got.CategoryDistribution)

	// all tied at 2; order of first contribution is alice, carol, bob
	assert.Equal(t, []Contributor{
		{UserID: "alice", Count: 2},
		{UserID: "carol", Count: 2},
		{UserID: "bob", Count: 2},
	}, got.TopContributors)
}

func TestStatistics_CapsContributors(t *testing.T) {
	var many assetList
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		many = append(many, assets.Asset{AuthorID: id, Status: assets.StatusPending})
	}
	got := NewService(many, count{}, count{}).Statistics(context.Background())
	assert.Len(t, got.TopContributors, MaxTopContributors)
}

func TestStatistics_DegradesToZero(t *testing.T) {
	svc := NewService(sample, count{err: errors.New("db down")}, count{n: 5})

	got := svc.Statistics(context.Background())
	assert.Zero(t, got.TotalAssets)
	assert.Zero(t, got.TotalTrainings)
	assert.NotNil(t, got.CategoryDistribution)
	assert.NotNil(t, got.TopContributors)
}
