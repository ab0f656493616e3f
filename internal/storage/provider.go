// Package storage defines the vault file-system abstraction.
package storage

import "time"

// FileInfo is the metadata returned for one Markdown file in the vault.
// Listing is stat-only; contents are only touched through Read.
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for vault file access. The converter only ever
// reads the vault; the output document is written elsewhere.
type Provider interface {
	// List walks dir (relative to the vault root) and returns metadata for
	// every note file, recursively.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to the vault root).
	Read(path string) ([]byte, error)
	// Root returns the absolute path of the vault root.
	Root() string
}
