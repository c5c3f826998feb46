// Package storage persists the console's bearer credential across restarts.
package storage

import (
	"context"
)

// TokenStore is durable storage for the single bearer credential.
type TokenStore interface {
	// LoadToken returns the stored credential, or ErrNotFound.
	LoadToken(ctx context.Context) (string, error)
	// SaveToken stores the credential, replacing any previous one.
	SaveToken(ctx context.Context, token string) error
	// ClearToken removes the credential. Clearing an empty store is not an error.
	ClearToken(ctx context.Context) error

	// Lifecycle
	Close() error
}
