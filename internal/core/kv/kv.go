// Package kv defines the durable key/value contract used to persist
// application state.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) by Get for missing keys.
var ErrNotFound = errors.New("kv: key not found")

// KV is the interface for a persistent key-value store.
// Keys are strings, values are JSON-serializable.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}
