package mocks

import (
	"context"

	"github.com/fieldops/franchise-client/internal/model"
)

// CredentialStore allows mocking a [model.CredentialStore].
type CredentialStore struct {
	MockGet func(ctx context.Context) (string, bool, error)

	MockSet func(ctx context.Context, token string) error

	MockRemove func(ctx context.Context) error
}

var _ model.CredentialStore = &CredentialStore{}

// Get calls MockGet.
func (cs *CredentialStore) Get(ctx context.Context) (string, bool, error) {
	return cs.MockGet(ctx)
}

// Set calls MockSet.
func (cs *CredentialStore) Set(ctx context.Context, token string) error {
	return cs.MockSet(ctx, token)
}

// Remove calls MockRemove.
func (cs *CredentialStore) Remove(ctx context.Context) error {
	return cs.MockRemove(ctx)
}
