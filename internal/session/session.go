// Package session tracks which refresh tokens are currently trusted.
// Tokens are keyed per user so a user can hold one session per device,
// and logout can revoke all of them at once. Only token digests are
// stored. A refresh token absent from the store is invalid regardless of
// its signature.
package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Save registers token as an active session for userID.
	Save(ctx context.Context, userID, token string) error
	// Find returns the user id bound to token, or ErrNotFound.
	Find(ctx context.Context, token string) (string, error)
	// TokensByUser returns the digests of the user's active tokens.
	TokensByUser(ctx context.Context, userID string) ([]string, error)
	// DeleteByUser revokes every session held by userID.
	DeleteByUser(ctx context.Context, userID string) error
}
