package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "tweakctl.log")

	l, closer, err := New("info", file)
	require.NoError(t, err)
	l.Debug().Msg("hidden")
	l.Info().Str("cmp", "test").Msg("first")
	closer()

	l, closer, err = New("info", file)
	require.NoError(t, err)
	l.Info().Msg("second")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"first"`)
	assert.Contains(t, string(data), `"message":"second"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_Level(t *testing.T) {
	l, closer, err := New("warn", "")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	_, _, err = New("loud", "")
	assert.Error(t, err)
}
