package assets

import "context"

// Repository is the persistence contract for knowledge assets.
//
// Writes join the unit of work carried by ctx (see utils.Transactor).
type Repository interface {
	Insert(ctx context.Context, a Asset) error
	// Get returns apperr.ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (Asset, error)
	// GetForUpdate is Get that also holds the row for the rest of the unit of work.
	GetForUpdate(ctx context.Context, id string) (Asset, error)
	Update(ctx context.Context, a Asset) error
	Delete(ctx context.Context, id string) error
	// List returns matching assets, oldest first unless f.NewestFirst.
	List(ctx context.Context, f Filter) ([]Asset, error)
}
