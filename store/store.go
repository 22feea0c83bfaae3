// Package store persists the single cached user token of a session.
//
// A TokenStore holds at most one row, keyed by username: written on
// successful login, read once at session initialization, deleted on
// confirmed logout.
package store

import (
	"context"

	"github.com/onehilltech/gatekeeper-go/token"
)

// TokenStore is the persistence contract for the cached user token.
type TokenStore interface {
	// Load returns the persisted token, or (nil, nil) when the store is
	// empty.
	Load(ctx context.Context) (*token.UserToken, error)

	// Save writes the token, replacing any previously persisted row.
	Save(ctx context.Context, t *token.UserToken) error

	// Delete removes the row for the given username. Deleting a missing
	// row is a no-op.
	Delete(ctx context.Context, username string) error
}
