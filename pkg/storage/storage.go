package storage

import (
	"io"
)

// FileInfo metadata of one stored source file.
type FileInfo struct {
	ID       string // unique file identifier
	Name     string // original filename
	Size     int64  // size in bytes
	MimeType string // MIME type (optional)
	Path     string // internal storage path (implementation specific)
}

// Storage staging area for uploaded source documents awaiting
// extraction. Implementations: local filesystem, MinIO.
type Storage interface {
	// Save stores a file and returns its info
	Save(reader io.Reader, filename string) (FileInfo, error)

	// Get fetches the file content
	Get(id string) (io.ReadCloser, error)

	// Delete removes the file
	Delete(id string) error

	// List lists all stored files
	List() ([]FileInfo, error)

	// Exists reports whether a file exists
	Exists(id string) (bool, error)
}

// Factory storage factory function, creates an implementation from
// its config.
type Factory func(cfg interface{}) (Storage, error)
