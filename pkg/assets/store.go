// Package assets provides read access to the resource root that holds icon
// textures and fonts.
package assets

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when an asset does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Store opens named assets below a fixed root.
//
// Names use forward slashes and are relative to the root, e.g. "bus.png"
// or "fonts/arial.ttf".
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ReadAll opens name in s and reads it fully.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	rc, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
