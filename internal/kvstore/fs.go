package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fieldops/franchise-client/internal/model"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// FS is a file-system based [model.KeyValueStore] storing each
// key inside its own file below a base directory.
type FS struct {
	basedir string
}

var _ model.KeyValueStore = &FS{}

// NewFS creates a new [*FS] rooted at basedir, creating basedir
// if it does not already exist.
func NewFS(basedir string) (*FS, error) {
	return newFS(basedir, os.MkdirAll)
}

// osMkdirAll is the type of os.MkdirAll.
type osMkdirAll func(path string, perm fs.FileMode) error

// newFS is like NewFS with a customizable osMkdirAll function.
func newFS(basedir string, mkdir osMkdirAll) (*FS, error) {
	if err := mkdir(basedir, 0700); err != nil {
		return nil, err
	}
	return &FS{basedir: basedir}, nil
}

// filename returns the filename for a given key.
func (kvs *FS) filename(key string) string {
	return filepath.Join(kvs.basedir, key)
}

// Get returns the specified key's value. When the key does not exist
// the error is such that errors.Is(err, ErrNoSuchKey); any other error
// means we could not read the store.
func (kvs *FS) Get(key string) ([]byte, error) {
	data, err := lockedfile.Read(kvs.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, err.Error())
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set sets the value of a specific key.
func (kvs *FS) Set(key string, value []byte) error {
	return lockedfile.Write(kvs.filename(key), bytes.NewReader(value), 0600)
}

// Delete removes the file backing the key, if any.
func (kvs *FS) Delete(key string) error {
	err := os.Remove(kvs.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
