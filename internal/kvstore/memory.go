// Package kvstore implements the [model.KeyValueStore] used to persist
// the session credential.
package kvstore

import (
	"errors"
	"sync"

	"github.com/fieldops/franchise-client/internal/model"
)

// ErrNoSuchKey indicates that there's no value for the given key.
var ErrNoSuchKey = errors.New("no such key")

// Memory is an in-memory key-value store.
//
// The zero value is ready to use.
type Memory struct {
	// m is the underlying map.
	m map[string][]byte

	// mu provides mutual exclusion.
	mu sync.Mutex
}

var _ model.KeyValueStore = &Memory{}

// NewMemory creates a new, empty [*Memory].
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the specified key's value. In case of error, the
// error type is such that errors.Is(err, ErrNoSuchKey).
func (kvs *Memory) Get(key string) ([]byte, error) {
	defer kvs.mu.Unlock()
	kvs.mu.Lock()
	value, ok := kvs.m[key]
	if !ok {
		return nil, ErrNoSuchKey
	}
	// return a copy so callers cannot mutate the stored value
	return append([]byte{}, value...), nil
}

// Set sets a key into the key-value store.
func (kvs *Memory) Set(key string, value []byte) error {
	defer kvs.mu.Unlock()
	kvs.mu.Lock()
	if kvs.m == nil {
		kvs.m = make(map[string][]byte)
	}
	kvs.m[key] = append([]byte{}, value...)
	return nil
}

// Delete removes a key from the key-value store.
func (kvs *Memory) Delete(key string) error {
	defer kvs.mu.Unlock()
	kvs.mu.Lock()
	delete(kvs.m, key)
	return nil
}
