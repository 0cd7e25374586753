package auth

import (
	"context"
	"errors"
)

// Identity is the authenticated caller resolved from an access token.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type ctxKey struct{}

var ErrNoIdentity = errors.New("identity not in context")

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the caller identity; ID and Role are always non-empty
// on success.
func IdentityFrom(ctx context.Context) (Identity, error) {
	v, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || v.ID == "" || v.Role == "" {
		return Identity{}, ErrNoIdentity
	}
	return v, nil
}

func UserID(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return "", err
	}
	return id.ID, nil
}

func Role(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return "", err
	}
	return id.Role, nil
}
