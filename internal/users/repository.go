package users

import "context"

type Repository interface {
	// Insert fails with apperr.ErrConflict when the email is taken.
	Insert(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByEmail expects a normalized (trimmed, lower-case) email.
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetMany returns the users that exist among ids, in no particular order.
	GetMany(ctx context.Context, ids []string) ([]User, error)
	// List returns every active user in signup order.
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}
