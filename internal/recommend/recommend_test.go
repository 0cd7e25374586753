package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/internal/assets"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/users"

	"github.com/stretchr/testify/assert"
)

type stubAssets struct {
	out []assets.Asset
	err error
}

func (s stubAssets) LatestApproved(_ context.Context, limit int) ([]assets.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.out) > limit {
		return s.out[:limit], nil
	}
	return s.out, nil
}

type stubUsers struct {
	all     []users.User
	listErr error
}

func (s stubUsers) Get(_ context.Context, id string) (users.User, error) {
	for _, u := range s.all {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, apperr.NotFoundf("user %s", id)
}

func (s stubUsers) List(context.Context) ([]users.User, error) {
	return s.all, s.listErr
}

func TestAssets_CapsAtFive(t *testing.T) {
	var as []assets.Asset
	for i := 0; i < 8; i++ {
		as = append(as, assets.Asset{ID: fmt.Sprintf("a%d", i), Status: assets.StatusApproved, CreatedAt: time.Unix(int64(100-i), 0)})
	}
	f := New(stubAssets{out: as}, stubUsers{})

	out := f.Assets(context.Background(), auth.Identity{ID: "u"})
	assert.Len(t, out, MaxResults)
	assert.Equal(t, "a0", out[0].ID)
}

func TestAssets_DegradesToEmpty(t *testing.T) {
	f := New(stubAssets{err: errors.New("db down")}, stubUsers{})
	out := f.Assets(context.Background(), auth.Identity{ID: "u"})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestExperts_MatchesSubstringIgnoringCaseAndExcludesCaller(t *testing.T) {
	us := stubUsers{all: []users.User{
		{ID: "me", Expertise: []string{"cloud"}},
		{ID: "a", Expertise: []string{"Cloud Architecture"}},
		{ID: "b", Expertise: []string{"Sales"}},
		{ID: "c", Expertise: []string{"multi-CLOUD"}},
		{ID: "d", Expertise: nil},
	}}
	out := New(stubAssets{}, us).Experts(context.Background(), auth.Identity{ID: "me"})

	var ids []string
	for _, u := range out {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestExperts_CapsAtFive(t *testing.T) {
	all := []users.User{{ID: "me", Expertise: []string{"go"}}}
	for i := 0; i < 9; i++ {
		all = append(all, users.User{ID: fmt.Sprintf("u%d", i), Expertise: []string{"Golang"}})
	}
	out := New(stubAssets{}, stubUsers{all: all}).Experts(context.Background(), auth.Identity{ID: "me"})
	assert.Len(t, out, MaxResults)
}

func TestExperts_SoftFailures(t *testing.T) {
	ctx := context.Background()

	noExpertise := stubUsers{all: []users.User{{ID: "me"}, {ID: "a", Expertise: []string{"cloud"}}}}
	assert.Empty(t, New(stubAssets{}, noExpertise).Experts(ctx, auth.Identity{ID: "me"}))

	unknownCaller := stubUsers{all: []users.User{{ID: "a", Expertise: []string{"cloud"}}}}
	assert.Empty(t, New(stubAssets{}, unknownCaller).Experts(ctx, auth.Identity{ID: "ghost"}))

	listFails := stubUsers{all: []users.User{{ID: "me", Expertise: []string{"cloud"}}}, listErr: errors.New("db down")}
	out := New(stubAssets{}, listFails).Experts(ctx, auth.Identity{ID: "me"})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
