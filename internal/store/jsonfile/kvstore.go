// Package jsonfile implements kv.KV with one JSON document per key.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/colonyops/tweakctl/internal/core/kv"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// KVStore implements kv.KV using a JSON file per key inside a directory.
type KVStore struct {
	dir string
	mu  sync.RWMutex
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new JSON file store rooted at dir.
func NewKVStore(dir string) *KVStore {
	return &KVStore{dir: dir}
}

// Path returns the file backing key.
func (s *KVStore) Path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

// Get reads and decodes the value for key into dest.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
		}
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if len(data) == 0 {
		return fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

// Set encodes value and writes it atomically.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	path := s.Path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has reports whether key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return true, nil
}

// Close is a no-op; files are not held open.
func (s *KVStore) Close() error { return nil }
