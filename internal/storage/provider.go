// Package storage defines the file-system abstraction over artifact and
// output directories.
package storage

import "github.com/starford/typegen/internal/models"

// Provider is the interface for rooted file operations. All paths are
// slash-separated and relative to the provider root.
type Provider interface {
	// List returns metadata for every file under dir accepted by match.
	// A nil match accepts every file.
	List(dir string, match func(path string) bool) ([]models.ArtifactMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path and prunes directories it leaves empty.
	Delete(path string) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
}
