package users

import (
	"context"

	"knowledge-network/internal/scoring"
)

// Directory resolves user ids to display data for other components.
// It implements scoring.Directory and assets.CreatorDirectory.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory { return &Directory{repo: repo} }

func (d *Directory) Lookup(ctx context.Context, ids []string) (map[string]scoring.Member, error) {
	us, err := d.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]scoring.Member, len(us))
	for _, u := range us {
		out[u.ID] = scoring.Member{Name: u.Name, Role: u.Role}
	}
	return out, nil
}

func (d *Directory) Names(ctx context.Context, ids []string) (map[string]string, error) {
	us, err := d.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(us))
	for _, u := range us {
		out[u.ID] = u.Name
	}
	return out, nil
}
