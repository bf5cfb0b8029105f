// Package logging provides logger construction helpers and context keys
// shared by tweakctl components.
package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey string

const batchIDKey contextKey = "batch_id"

// WithBatchID adds a batch ID to the context.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey, batchID)
}

// GetBatchID retrieves the batch ID from the context.
// Returns empty string if not present.
func GetBatchID(ctx context.Context) string {
	if id, ok := ctx.Value(batchIDKey).(string); ok {
		return id
	}
	return ""
}

// WithContext returns l enriched with the context values tweakctl tracks.
func WithContext(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	if id := GetBatchID(ctx); id != "" {
		return l.With().Str("batch_id", id).Logger()
	}
	return l
}
