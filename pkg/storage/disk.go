// Package storage is the filesystem abstraction behind product images.
//
// Two drivers are available:
//   - "local": local filesystem under STORAGE_LOCAL_ROOT (default "public")
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once with storage.Connect(), then use storage.Default() or
// storage.Use("s3").
package storage

import (
	"context"
	"io"
)

// Disk is the driver interface. Paths are slash-separated and relative to
// the disk root, e.g. "uploads/1718000000000-cake.jpg".
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// PathOf maps a URL produced by URL back to its disk path. ok is false
	// when the URL does not belong to this disk.
	PathOf(url string) (path string, ok bool)

	// MakeDirectory creates directory (and any parents).
	MakeDirectory(ctx context.Context, path string) error
}
