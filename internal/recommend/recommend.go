// Package recommend derives bounded suggestion lists from approved assets and
// user profiles. It is display-only: every failure degrades to an empty list.
package recommend

import (
	"context"
	"strings"

	"knowledge-network/internal/assets"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/users"
	"knowledge-network/pkg/logger"
)

// MaxResults caps both recommendation lists.
const MaxResults = 5

type AssetSource interface {
	LatestApproved(ctx context.Context, limit int) ([]assets.Asset, error)
}

type UserSource interface {
	Get(ctx context.Context, userID string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

type Filter struct {
	assets AssetSource
	users  UserSource
}

func New(a AssetSource, u UserSource) *Filter {
	return &Filter{assets: a, users: u}
}

// Assets returns the newest approved assets.
func (f *Filter) Assets(ctx context.Context, id auth.Identity) []assets.Asset {
	out, err := f.assets.LatestApproved(ctx, MaxResults)
	if err != nil {
		logger.From(ctx).Warn("asset recommendations unavailable", "user_id", id.ID, "err", err)
		return []assets.Asset{}
	}
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// Experts returns other users with an expertise tag containing one of the
// caller's tags, ignoring case. Callers without expertise get no results.
func (f *Filter) Experts(ctx context.Context, id auth.Identity) []users.User {
	log := logger.From(ctx)
	out := []users.User{}

	me, err := f.users.Get(ctx, id.ID)
	if err != nil {
		log.Warn("expert recommendations unavailable", "user_id", id.ID, "err", err)
		return out
	}
	wanted := lowerAll(me.Expertise)
	if len(wanted) == 0 {
		return out
	}

	candidates, err := f.users.List(ctx)
	if err != nil {
		log.Warn("expert recommendations unavailable", "user_id", id.ID, "err", err)
		return out
	}
	for _, c := range candidates {
		if c.ID == id.ID || !overlaps(lowerAll(c.Expertise), wanted) {
			continue
		}
		out = append(out, c)
		if len(out) == MaxResults {
			break
		}
	}
	return out
}

func overlaps(have, wanted []string) bool {
	for _, h := range have {
		for _, w := range wanted {
			if strings.Contains(h, w) {
				return true
			}
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
