package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/store/jsonfile"
)

type fakeLoader struct {
	items   map[item.Category][]item.Item
	presets []item.Preset
	errs    map[item.Category]error
}

func (f fakeLoader) Load(_ context.Context, c item.Category) ([]item.Item, error) {
	if err := f.errs[c]; err != nil {
		return nil, err
	}
	return f.items[c], nil
}

func (f fakeLoader) Presets(context.Context) ([]item.Preset, error) {
	return f.presets, nil
}

func withLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPathFunc
	lookPathFunc = fn
	t.Cleanup(func() { lookPathFunc = orig })
}

func TestShellCheck(t *testing.T) {
	tests := []struct {
		name   string
		argv   []string
		found  bool
		status Status
	}{
		{name: "not configured", argv: nil, status: StatusFail},
		{name: "missing binary", argv: []string{"powershell", "-Command"}, found: false, status: StatusFail},
		{name: "found", argv: []string{"powershell", "-Command"}, found: true, status: StatusPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withLookPath(t, func(name string) (string, error) {
				if tt.found {
					return "/usr/bin/" + name, nil
				}
				return "", errors.New("not found")
			})

			res := NewShellCheck(tt.argv).Run(context.Background())
			require.Len(t, res.Items, 1)
			assert.Equal(t, tt.status, res.Items[0].Status)
		})
	}
}

func TestCatalogCheck(t *testing.T) {
	loader := fakeLoader{
		items: map[item.Category][]item.Item{
			item.CategoryPrivacy: {{ID: "a"}, {ID: "b"}},
		},
		errs: map[item.Category]error{
			item.CategoryApps: errors.New("catalog data unavailable: apps.json not found"),
		},
		presets: []item.Preset{
			{ID: "ok", Items: []string{"a"}},
			{ID: "stale", Items: []string{"a", "gone"}},
		},
	}

	res := NewCatalogCheck(loader).Run(context.Background())
	passed, warned, failed := Summary([]Result{res})

	assert.Equal(t, 1, failed, "apps fails")
	// four empty categories plus the stale preset
	assert.Equal(t, 5, warned)
	// privacy plus the preset summary
	assert.Equal(t, 2, passed)
}

func TestStorageCheck(t *testing.T) {
	store := jsonfile.NewKVStore(t.TempDir())

	res := NewStorageCheck("json", store).Run(context.Background())
	require.Len(t, res.Items, 1)
	assert.Equal(t, StatusPass, res.Items[0].Status)

	has, err := store.Has(context.Background(), probeKey)
	require.NoError(t, err)
	assert.False(t, has, "probe key is cleaned up")
}

func TestRunAllKeepsOrder(t *testing.T) {
	withLookPath(t, func(string) (string, error) { return "/bin/sh", nil })

	results := RunAll(context.Background(), []Check{
		NewShellCheck([]string{"sh"}),
		NewStorageCheck("json", jsonfile.NewKVStore(t.TempDir())),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "Shell", results[0].Name)
	assert.Equal(t, "Storage", results[1].Name)
}

func TestCatalogCheck_SharedIDs(t *testing.T) {
	loader := fakeLoader{
		items: map[item.Category][]item.Item{
			item.CategoryApps:     {{ID: "z"}},
			item.CategoryPrivacy:  {{ID: "x"}, {ID: "y"}},
			item.CategoryServices: {{ID: "x"}},
			item.CategoryRegistry: {{ID: "r"}},
			item.CategoryUpdates:  {{ID: "u"}},
			item.CategorySystem:   {{ID: "s"}},
		},
	}

	res := NewCatalogCheck(loader).Run(context.Background())

	var warns []CheckItem
	for _, it := range res.Items {
		if it.Status == StatusWarn {
			warns = append(warns, it)
		}
	}
	require.Len(t, warns, 1)
	assert.Equal(t, "id x", warns[0].Label)
	assert.Contains(t, warns[0].Detail, "privacy and services")
}
