// Package locks serializes review transitions per asset id.
package locks

import (
	"context"
	"errors"
)

// Locker grants exclusive access to key until the returned release is called.
// Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

var ErrKeyRequired = errors.New("locks: key is required")
