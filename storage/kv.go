package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// KV is the durable key-value collaborator history persistence runs
// through. Get reports whether the key was present so callers can tell
// an absent key from an empty value.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileKV stores each key as a file under a directory. Values may contain
// conversation content, so files are written user-only.
type FileKV struct {
	dir string
}

// NewFileKV creates (or opens) a file-backed store rooted at dir.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileKV) Set(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
