// Package codec is the boundary to the mesh interchange file codec.
package codec

//go:generate mockgen -destination=mocks/mock_codec.go -package=mocks github.com/vmunix/assetsbridge/internal/codec MeshCodec

import (
	"context"
	"errors"
)

// ErrMeshCodec indicates the codec failed to read or write a mesh file.
var ErrMeshCodec = errors.New("mesh codec failure")

// MeshCodec exports selected objects to a mesh file and imports mesh files into the scene.
type MeshCodec interface {
	// Export writes the selected objects to path.
	Export(ctx context.Context, path string, selection []string, opts Options) error

	// Import reads path into the scene and returns the names of the objects it created.
	Import(ctx context.Context, path string, opts Options) ([]string, error)
}
