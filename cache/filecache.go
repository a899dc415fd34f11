package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/user"
	"path/filepath"
)

// FileStore implements Store on the local filesystem, one JSON file per key.
// It lets CLI invocations share cached responses between runs.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in dir.
// If dir is empty, uses ~/.aniwatch_cache/<subdir>.
func NewFileStore(dir, subdir string) (*FileStore, error) {
	if dir == "" {
		usr, err := user.Current()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(usr.HomeDir, ".aniwatch_cache")
	}
	if subdir != "" {
		dir = filepath.Join(dir, subdir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the directory entries are written to.
func (fc *FileStore) Dir() string {
	return fc.dir
}

// Read implements Reader
func (fc *FileStore) Read(_ context.Context, key string) (*Entry, bool, error) {
	data, err := os.ReadFile(fc.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cache file: %w", err)
	}
	// md5 collision or a hand-edited file
	if entry.Key != key {
		return nil, false, nil
	}

	return &entry, true, nil
}

// Write implements Writer
func (fc *FileStore) Write(_ context.Context, entry *Entry) error {
	path := fc.path(entry.Key)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// Write to temporary file first, then rename (atomic operation)
	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// Len counts the entries on disk.
func (fc *FileStore) Len() (int, error) {
	matches, err := filepath.Glob(filepath.Join(fc.dir, "*.json"))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// path generates the full filesystem path for a cache key
func (fc *FileStore) path(key string) string {
	return filepath.Join(fc.dir, "hash_"+hashKey(key)+".json")
}
