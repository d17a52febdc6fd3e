// Package storage defines the read-only corpus file-system abstraction.
// The vault is scanned once per run; all write access stays with the user.
package storage

import "github.com/starford/gebo/internal/models"

// Provider is the interface for corpus file access.
type Provider interface {
	// List returns every .md file under dir (relative to the vault root),
	// sorted by path.
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the vault root).
	Read(path string) ([]byte, error)
	// Root returns the absolute vault root directory.
	Root() string
}
