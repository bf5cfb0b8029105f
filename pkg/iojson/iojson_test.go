package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	got := MarshalError("apply failed", map[string]any{"failed": 2})

	var e Error
	require.NoError(t, json.Unmarshal([]byte(got), &e))
	assert.Equal(t, "apply failed", e.Message)
	assert.EqualValues(t, 2, e.Data["failed"])
}

func TestMarshalError_Unmarshalable(t *testing.T) {
	got := MarshalError(`bad "quote"`, map[string]any{"ch": make(chan int)})

	var e Error
	require.NoError(t, json.Unmarshal([]byte(got), &e), "fallback must still be valid JSON")
	assert.Equal(t, `bad "quote"`, e.Message)
	assert.Contains(t, e.Data, "json_error")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"count": 1}))
	assert.JSONEq(t, `{"count":1}`, out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteLine(&out, map[string]string{"id": "a"}))
	require.NoError(t, WriteLine(&out, map[string]string{"id": "b"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestFileReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	require.NoError(t, os.WriteFile(path, []byte(`["a","b"]`), 0o644))

	fr := &FileReader[[]string]{fileFlagValue: path}
	assert.True(t, fr.IsSet())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	fr = &FileReader[[]string]{fileFlagValue: filepath.Join(t.TempDir(), "missing.json")}
	_, err = fr.Read()
	assert.ErrorContains(t, err, "open file")
}

func TestDecode(t *testing.T) {
	_, err := Decode[[]string](strings.NewReader("{"))
	assert.ErrorContains(t, err, "decode JSON")
}
