package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/tweakctl/internal/core/kv"
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db *DB
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves and deserializes a value by key.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	var data []byte
	err := s.db.conn.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

// Set stores a value, replacing any previous one.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := time.Now().UnixNano()
	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, now, now,
	)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.conn.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_store WHERE key = ?`, key).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// Close closes the underlying database.
func (s *KVStore) Close() error {
	return s.db.Close()
}
