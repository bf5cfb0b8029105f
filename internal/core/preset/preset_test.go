package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tweakctl/internal/core/item"
)

func catalog(ids ...string) []item.Item {
	items := make([]item.Item, len(ids))
	for i, id := range ids {
		items[i] = item.Item{ID: id, Action: "run " + id}
	}
	return items
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		preset  item.Preset
		catalog []item.Item
		want    []string
	}{
		{
			name:    "unknown ids dropped",
			preset:  item.Preset{ID: "min", Items: []string{"a1", "a3", "zz"}},
			catalog: catalog("a1", "a2", "a3"),
			want:    []string{"a1", "a3"},
		},
		{
			name:    "empty intersection",
			preset:  item.Preset{ID: "none", Items: []string{"zz"}},
			catalog: catalog("a1"),
			want:    []string{},
		},
		{
			name:    "empty catalog",
			preset:  item.Preset{ID: "p", Items: []string{"a1"}},
			catalog: nil,
			want:    []string{},
		},
		{
			name:    "duplicate preset ids collapse",
			preset:  item.Preset{ID: "dup", Items: []string{"a1", "a1"}},
			catalog: catalog("a1"),
			want:    []string{"a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.preset, tt.catalog)
			assert.ElementsMatch(t, tt.want, got.Sorted())
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	p := item.Preset{ID: "min", Items: []string{"a3", "a1"}}
	cat := catalog("a1", "a2", "a3")

	assert.Equal(t, Resolve(p, cat), Resolve(p, cat))
}

func TestFind(t *testing.T) {
	presets := []item.Preset{{ID: "basic"}, {ID: "aggressive"}}

	p, err := Find(presets, "aggressive")
	require.NoError(t, err)
	assert.Equal(t, "aggressive", p.ID)

	_, err = Find(presets, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
