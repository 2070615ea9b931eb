package assets

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore implements Store using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at root. An empty root resolves
// names against the working directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root returns the directory names are resolved against.
func (s *LocalStore) Root() string {
	return s.root
}

// Open opens an asset for reading.
func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(name)))
}
