package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps the blob in one JSON file named after the storage key.
type FileBackend struct {
	path string
}

// NewFileBackend stores the blob at dir/<key>.json.
func NewFileBackend(dir, key string) *FileBackend {
	return &FileBackend{path: filepath.Join(dir, key+".json")}
}

// Path returns the file location.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Load(context.Context) ([]byte, error) {
	blob, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	return blob, nil
}

// Save writes to a temporary file and renames it over the target.
func (b *FileBackend) Save(_ context.Context, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

func (b *FileBackend) Clear(context.Context) error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

var _ Backend = (*FileBackend)(nil)
