package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/auditax/console/internal/core/domain"
)

// FileStore persists keys as a JSON object in a single local file, the
// console's stand-in for browser storage. Writes rewrite the whole file;
// last writer wins. With a Sealer attached, values are encrypted at rest.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer *Sealer
	data   map[string]string
}

// NewFileStore loads (or lazily creates) the state file at path. sealer may
// be nil for plain-JSON storage.
func NewFileStore(path string, sealer *Sealer) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		sealer: sealer,
		data:   make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// first run
	case err != nil:
		return nil, fmt.Errorf("read state file: %w", err)
	default:
		if err := json.Unmarshal(raw, &fs.data); err != nil {
			return nil, fmt.Errorf("state file %s is corrupt: %w", path, err)
		}
	}
	return fs, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	if f.sealer != nil {
		return f.sealer.Open(value)
	}
	return value, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sealer != nil {
		sealed, err := f.sealer.Seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}
	f.data[key] = value
	return f.flush()
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}

// flush must be called with the lock held. Written via a temp file and
// rename so a crash never leaves a half-written state file.
func (f *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
