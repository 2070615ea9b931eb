package assets

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
)

// MemoryStore is an in-memory Store, mainly for tests and embedded assets.
type MemoryStore struct {
	files map[string][]byte
	opens atomic.Int64
}

// NewMemoryStore creates a MemoryStore holding files.
func NewMemoryStore(files map[string][]byte) *MemoryStore {
	if files == nil {
		files = make(map[string][]byte)
	}
	return &MemoryStore{files: files}
}

// Put adds or replaces an asset.
func (s *MemoryStore) Put(name string, data []byte) {
	s.files[name] = data
}

// Open opens an asset for reading.
func (s *MemoryStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.opens.Add(1)
	data, ok := s.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Opens returns how many times Open was called, including misses.
func (s *MemoryStore) Opens() int64 {
	return s.opens.Load()
}
