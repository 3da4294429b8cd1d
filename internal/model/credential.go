package model

import "context"

// CredentialStore holds the single bearer token of the current session.
//
// All methods may block on storage and may fail. Implementations MUST be
// safe to call from concurrent goroutines.
type CredentialStore interface {
	// Get returns the stored token and whether it was found. A missing
	// credential is not an error.
	Get(ctx context.Context) (token string, found bool, err error)

	// Set replaces the stored token.
	Set(ctx context.Context, token string) error

	// Remove clears the stored token. Removing a missing token is not an error.
	Remove(ctx context.Context) error
}
