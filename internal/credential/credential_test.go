package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops/franchise-client/internal/kvstore"
	"github.com/fieldops/franchise-client/internal/model/mocks"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kvstore.NewMemory())

	token, found, err := store.Get(ctx)
	if err != nil || found || token != "" {
		t.Fatal("expected no credential", token, found, err)
	}

	if err := store.Set(ctx, "real-token"); err != nil {
		t.Fatal(err)
	}
	token, found, err = store.Get(ctx)
	if err != nil || !found || token != "real-token" {
		t.Fatal("expected the stored credential", token, found, err)
	}

	if err := store.Set(ctx, "newer-token"); err != nil {
		t.Fatal(err)
	}
	token, _, _ = store.Get(ctx)
	if token != "newer-token" {
		t.Fatal("Set should replace the credential", token)
	}

	if err := store.Remove(ctx); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Get(ctx); found {
		t.Fatal("expected no credential after Remove")
	}
}

func TestStoreWithFS(t *testing.T) {
	kvs, err := kvstore.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	store := NewStore(kvs)
	if err := store.Set(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	token, found, err := NewStore(kvs).Get(ctx)
	if err != nil || !found || token != "abc" {
		t.Fatal("unexpected result", token, found, err)
	}
}

func TestStoreEmptyValueIsAbsent(t *testing.T) {
	kvs := kvstore.NewMemory()
	if err := kvs.Set(StorageKey, nil); err != nil {
		t.Fatal(err)
	}
	_, found, err := NewStore(kvs).Get(context.Background())
	if err != nil || found {
		t.Fatal("expected no credential", found, err)
	}
}

func TestStoreGetFailure(t *testing.T) {
	expected := errors.New("mocked error")
	store := NewStore(&mocks.KeyValueStore{
		MockGet: func(key string) ([]byte, error) {
			return nil, expected
		},
	})
	_, found, err := store.Get(context.Background())
	if !errors.Is(err, expected) {
		t.Fatal("not the error we expected", err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	store := NewStore(&mocks.KeyValueStore{
		MockGet: func(key string) ([]byte, error) {
			panic("should not be called")
		},
		MockSet: func(key string, value []byte) error {
			panic("should not be called")
		},
		MockDelete: func(key string) error {
			panic("should not be called")
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := store.Get(ctx); !errors.Is(err, context.Canceled) {
		t.Fatal("not the error we expected", err)
	}
	if err := store.Set(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatal("not the error we expected", err)
	}
	if err := store.Remove(ctx); !errors.Is(err, context.Canceled) {
		t.Fatal("not the error we expected", err)
	}
}
