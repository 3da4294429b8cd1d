// Package credential stores the bearer token of the current session
// inside a [model.KeyValueStore].
package credential

import (
	"context"
	"errors"

	"github.com/fieldops/franchise-client/internal/kvstore"
	"github.com/fieldops/franchise-client/internal/model"
)

// StorageKey is the key under which the token is stored.
const StorageKey = "auth_token"

// Store is the [model.CredentialStore] backed by a key-value store.
type Store struct {
	kvs model.KeyValueStore
}

var _ model.CredentialStore = &Store{}

// NewStore creates a [*Store] persisting the token into kvs.
func NewStore(kvs model.KeyValueStore) *Store {
	return &Store{kvs: kvs}
}

// Get implements model.CredentialStore. An empty stored value
// is reported as a missing credential.
func (s *Store) Get(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := s.kvs.Get(StorageKey)
	if errors.Is(err, kvstore.ErrNoSuchKey) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if len(data) <= 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

// Set implements model.CredentialStore.
func (s *Store) Set(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.kvs.Set(StorageKey, []byte(token))
}

// Remove implements model.CredentialStore.
func (s *Store) Remove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.kvs.Delete(StorageKey)
}
