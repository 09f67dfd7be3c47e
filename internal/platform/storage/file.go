package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ridloal/supermarket-management/internal/platform/logger"
)

// FileStore keeps every key in memory and rewrites a JSON snapshot after each mutation,
// so the contents survive a restart.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFileStore restores the snapshot at path. A missing file starts empty; so does a
// corrupt one, after logging it, rather than refusing to start.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file storage requires a path")
	}
	s := &FileStore{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case err == nil && len(data) > 0:
		if err := json.Unmarshal(data, &s.values); err != nil {
			logger.Error("FileStore: snapshot "+path+" is malformed, starting empty", err)
			s.values = make(map[string]string)
		}
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read storage snapshot: %w", err)
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.writeSnapshot()
}

func (s *FileStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := s.values[k]; ok {
			delete(s.values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeSnapshot()
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSnapshot()
}

// writeSnapshot must be called with s.mu held.
func (s *FileStore) writeSnapshot() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	temp := s.path + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(temp, s.path)
}
