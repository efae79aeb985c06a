// Package blob stores transaction attachments (receipt images) on the
// local filesystem, outside the primary record store. References handed
// out are bare filenames; the HTTP layer maps them under /uploads.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the attachment store used by the transaction handlers.
type Store interface {
	Save(r io.Reader, ext string) (string, error)
	Delete(ref string) error
}

type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a
// store writing into it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the blob under a fresh random name, keeping the original
// file extension so browsers can infer the content type.
func (s *DiskStore) Save(r io.Reader, ext string) (string, error) {
	name := uuid.New().String() + sanitizeExt(ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close blob file: %w", err)
	}

	return name, nil
}

// Delete removes a stored blob. References that escape the upload
// directory are rejected.
func (s *DiskStore) Delete(ref string) error {
	if ref == "" || ref == "." || ref == ".." || ref != filepath.Base(ref) {
		return fmt.Errorf("invalid blob reference %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", ref, err)
	}
	return nil
}

// Dir returns the directory blobs are stored in, for static file serving.
func (s *DiskStore) Dir() string {
	return s.dir
}

// sanitizeExt keeps only a plain ".xyz" suffix; anything else is dropped.
func sanitizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext != filepath.Ext("x"+ext) || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return strings.ToLower(ext)
}
