// Package blobstore persists raw uploaded documents. It defines the Store
// interface, a disk-backed implementation used in production, and an
// in-memory implementation for testing and development.
//
// Stored files are addressed by an absolute path with forward-slash
// separators. That path doubles as the reconciliation key when analysis
// results come back from the external service, so it must be stable and
// unique per file regardless of the client-supplied name.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrBlobNotFound    = errors.New("blob not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrMissingFileName = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed blob size in bytes (100 MB).
const MaxFileSize = 100 * 1024 * 1024

// Store is the contract for raw document storage backends.
type Store interface {
	// Save writes content under a freshly generated unique name, keeping the
	// extension of fileName, and returns the absolute storage path with '/'
	// separators.
	Save(ctx context.Context, fileName string, content io.Reader) (string, error)
	// Remove deletes a previously saved blob by its storage path.
	Remove(ctx context.Context, path string) error
}

// NormalizePath converts a storage path to forward-slash separators. Paths
// cross the boundary to the analysis service, which may not share the
// caller's separator convention, so every comparison goes through this.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// ---------------------------------------------------------------------------
// Disk implementation
// ---------------------------------------------------------------------------

// DiskStore writes blobs to a local directory. The directory is created on
// construction if it does not exist.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a DiskStore rooted at dir, resolved to an absolute path.
func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", abs, err)
	}
	return &DiskStore{dir: abs}, nil
}

// Dir returns the absolute storage directory.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Save(_ context.Context, fileName string, content io.Reader) (string, error) {
	if fileName == "" {
		return "", ErrMissingFileName
	}

	// Fresh unique name per stored file; the original name is untrusted and
	// display-only.
	unique := uuid.New().String() + filepath.Ext(fileName)
	dest := filepath.Join(s.dir, unique)

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(content, MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("write blob file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(dest)
		return "", ErrFileTooLarge
	}

	return NormalizePath(dest), nil
}

func (s *DiskStore) Remove(_ context.Context, path string) error {
	err := os.Remove(filepath.FromSlash(path))
	if os.IsNotExist(err) {
		return ErrBlobNotFound
	}
	return err
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// MemStore is a thread-safe, in-memory Store for testing/dev.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemStore returns a ready-to-use MemStore.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

func (s *MemStore) Save(_ context.Context, fileName string, content io.Reader) (string, error) {
	if fileName == "" {
		return "", ErrMissingFileName
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	path := "/mem/uploads/" + uuid.New().String() + filepath.Ext(fileName)

	s.mu.Lock()
	s.blobs[path] = data
	s.mu.Unlock()

	return path, nil
}

func (s *MemStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[path]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, path)
	return nil
}

// Get returns stored content, for test assertions.
func (s *MemStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[path]
	return data, ok
}
