package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tweakctl/internal/core/item"
)

type fakeSource struct {
	mu       sync.Mutex
	catalogs map[item.Category][]item.Item
	apps     []AppRecord
	presets  []item.Preset
	err      error
	calls    int
}

func (f *fakeSource) FetchCatalog(_ context.Context, c item.Category) ([]item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalogs[c], nil
}

func (f *fakeSource) FetchApps(context.Context) ([]AppRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.apps, nil
}

func (f *fakeSource) FetchPresets(context.Context) ([]item.Preset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.presets, nil
}

func newAdapter(src Source, opts ...Option) *Adapter {
	return New(src, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func TestAdapter_LoadStampsCategory(t *testing.T) {
	src := &fakeSource{catalogs: map[item.Category][]item.Item{
		item.CategoryPrivacy: {
			{ID: "telemetry", Name: "Telemetry", Action: "Set-Telemetry 0", RollbackAction: "Set-Telemetry 1"},
			{ID: "ads", Name: "Ads", Category: item.CategorySystem, Action: "Set-Ads 0"},
		},
	}}

	items, err := newAdapter(src).Load(context.Background(), item.CategoryPrivacy)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, item.CategoryPrivacy, it.Category)
	}
	assert.Equal(t, []string{"telemetry", "ads"}, item.IDs(items))
	assert.True(t, items[0].Reversible())
}

func TestAdapter_LoadApps(t *testing.T) {
	installed := true
	src := &fakeSource{apps: []AppRecord{
		{ID: "bing-news", Name: "News", Package: "Microsoft.BingNews", IsInstalled: &installed},
		{ID: "quote", Name: "Quote", Package: "Vendor.It's"},
	}}

	items, err := newAdapter(src).Load(context.Background(), item.CategoryApps)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, item.CategoryApps, items[0].Category)
	assert.Equal(t,
		"Get-AppxPackage -AllUsers 'Microsoft.BingNews' | Remove-AppxPackage -AllUsers",
		items[0].Action)
	assert.Empty(t, items[0].RollbackAction)
	require.NotNil(t, items[0].IsInstalled)
	assert.True(t, *items[0].IsInstalled)

	assert.Contains(t, items[1].Action, "'Vendor.It''s'")
	assert.Nil(t, items[1].IsInstalled)
}

func TestAdapter_LoadAppsCustomTemplate(t *testing.T) {
	src := &fakeSource{apps: []AppRecord{{ID: "a", Package: "pkg"}}}

	items, err := newAdapter(src, WithRemoveTemplate("remove {{ .Package }}")).
		Load(context.Background(), item.CategoryApps)
	require.NoError(t, err)
	assert.Equal(t, "remove pkg", items[0].Action)
}

func TestAdapter_DataUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		src      *fakeSource
		category item.Category
		opts     []Option
		contains string
	}{
		{
			name:     "source error is kept verbatim",
			src:      &fakeSource{err: errors.New("Failed to read file: no such file")},
			category: item.CategoryServices,
			contains: "Failed to read file: no such file",
		},
		{
			name:     "app source error",
			src:      &fakeSource{err: errors.New("offline")},
			category: item.CategoryApps,
			contains: "offline",
		},
		{
			name: "item without command",
			src: &fakeSource{catalogs: map[item.Category][]item.Item{
				item.CategoryRegistry: {{ID: "broken"}},
			}},
			category: item.CategoryRegistry,
			contains: "command is required",
		},
		{
			name: "duplicate id within a category",
			src: &fakeSource{catalogs: map[item.Category][]item.Item{
				item.CategoryServices: {{ID: "x", Action: "a"}, {ID: "x", Action: "b"}},
			}},
			category: item.CategoryServices,
			contains: "duplicate item id(s) x",
		},
		{
			name:     "duplicate app id",
			src:      &fakeSource{apps: []AppRecord{{ID: "a", Package: "p"}, {ID: "a", Package: "q"}}},
			category: item.CategoryApps,
			contains: "duplicate item id(s) a",
		},
		{
			name:     "bad removal template",
			src:      &fakeSource{apps: []AppRecord{{ID: "a", Package: "p"}}},
			category: item.CategoryApps,
			opts:     []Option{WithRemoveTemplate("{{ .Nope }}")},
			contains: `app "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAdapter(tt.src, tt.opts...).Load(context.Background(), tt.category)
			require.ErrorIs(t, err, ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestAdapter_NoCaching(t *testing.T) {
	src := &fakeSource{catalogs: map[item.Category][]item.Item{
		item.CategorySystem: {{ID: "a", Action: "x"}},
	}}
	a := newAdapter(src)

	_, err := a.Load(context.Background(), item.CategorySystem)
	require.NoError(t, err)
	_, err = a.Load(context.Background(), item.CategorySystem)
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestAdapter_Presets(t *testing.T) {
	src := &fakeSource{presets: []item.Preset{{ID: "min", Items: []string{"a"}}}}

	presets, err := newAdapter(src).Presets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "min", presets[0].ID)

	src.err = errors.New("Failed to parse presets JSON")
	_, err = newAdapter(src).Presets(context.Background())
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestAdapter_LoadAllKeepsCategoryOrder(t *testing.T) {
	src := &fakeSource{
		catalogs: map[item.Category][]item.Item{
			item.CategoryPrivacy: {{ID: "p1", Action: "x"}},
			item.CategorySystem:  {{ID: "s1", Action: "x"}, {ID: "s2", Action: "x"}},
		},
		apps: []AppRecord{{ID: "app1", Package: "pkg"}},
	}

	items, err := newAdapter(src).LoadAll(context.Background(),
		item.CategorySystem, item.CategoryApps, item.CategoryPrivacy)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "app1", "p1"}, item.IDs(items))
}

func TestAdapter_LoadAllDefaultsToEveryCategory(t *testing.T) {
	src := &fakeSource{}

	items, err := newAdapter(src).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, len(item.Categories()), src.calls)
}

func TestAdapter_LoadAllFails(t *testing.T) {
	src := &fakeSource{err: errors.New("gone")}

	_, err := newAdapter(src).LoadAll(context.Background())
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestAdapter_LoadAllRejectsSharedIDs(t *testing.T) {
	src := &fakeSource{catalogs: map[item.Category][]item.Item{
		item.CategoryPrivacy:  {{ID: "x", Action: "p"}},
		item.CategoryServices: {{ID: "x", Action: "s"}},
	}}
	a := newAdapter(src)

	_, err := a.LoadAll(context.Background())
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "duplicate item id(s) x")

	// Each category is still valid on its own.
	items, err := a.Load(context.Background(), item.CategoryPrivacy)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, item.IDs(items))
}
