package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBatchID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetBatchID(ctx))

	ctx = WithBatchID(ctx, "b-123")
	assert.Equal(t, "b-123", GetBatchID(ctx))
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	l := WithContext(WithBatchID(context.Background(), "b-1"), base)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"batch_id":"b-1"`)

	buf.Reset()
	l = WithContext(context.Background(), base)
	l.Info().Msg("hello")
	assert.NotContains(t, buf.String(), "batch_id")
}
