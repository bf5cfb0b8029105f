// Package catalog turns raw catalog data from a Source into executable
// items and presets.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/logging"
	"github.com/colonyops/tweakctl/pkg/tmpl"
)

// DefaultRemoveTemplate renders the removal action for an installed app.
const DefaultRemoveTemplate = "Get-AppxPackage -AllUsers {{ psq .Package }} | Remove-AppxPackage -AllUsers"

// ErrDataUnavailable wraps every failure to produce catalog data.
var ErrDataUnavailable = errors.New("catalog data unavailable")

// AppRecord describes a removable application. The removal action is
// derived from Package.
type AppRecord struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Safe        bool   `json:"safe" yaml:"safe"`
	Package     string `json:"package" yaml:"package"`
	IsInstalled *bool  `json:"isInstalled,omitempty" yaml:"isInstalled,omitempty"`
}

// Source supplies raw catalog data.
type Source interface {
	FetchCatalog(ctx context.Context, category item.Category) ([]item.Item, error)
	FetchApps(ctx context.Context) ([]AppRecord, error)
	FetchPresets(ctx context.Context) ([]item.Preset, error)
}

// Adapter loads items and presets from a Source. It holds no cache; every
// call goes to the source.
type Adapter struct {
	source         Source
	removeTemplate string
	logger         zerolog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRemoveTemplate overrides the app removal template.
func WithRemoveTemplate(t string) Option {
	return func(a *Adapter) {
		if t != "" {
			a.removeTemplate = t
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New creates an Adapter over source.
func New(source Source, opts ...Option) *Adapter {
	a := &Adapter{
		source:         source,
		removeTemplate: DefaultRemoveTemplate,
		logger:         logging.Component("catalog"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, err.Error())
}

// checkUnique rejects a snapshot in which an id names more than one item.
func checkUnique(scope string, items []item.Item) error {
	if dups := item.DuplicateIDs(items); len(dups) > 0 {
		return unavailable(fmt.Errorf("%s: duplicate item id(s) %s", scope, strings.Join(dups, ", ")))
	}
	return nil
}

// Load returns the items of one category.
func (a *Adapter) Load(ctx context.Context, category item.Category) ([]item.Item, error) {
	var (
		items []item.Item
		err   error
	)
	if category == item.CategoryApps {
		items, err = a.loadApps(ctx)
	} else {
		items, err = a.loadCategory(ctx, category)
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("category", string(category)).Msg("catalog load failed")
		return nil, err
	}

	a.logger.Debug().
		Str("category", string(category)).
		Int("items", len(items)).
		Msg("catalog loaded")
	return items, nil
}

func (a *Adapter) loadCategory(ctx context.Context, category item.Category) ([]item.Item, error) {
	raw, err := a.source.FetchCatalog(ctx, category)
	if err != nil {
		return nil, unavailable(err)
	}

	items := make([]item.Item, len(raw))
	for i, it := range raw {
		it.Category = category
		if err := it.Validate(); err != nil {
			return nil, unavailable(fmt.Errorf("%s: %w", category, err))
		}
		items[i] = it
	}
	if err := checkUnique(string(category), items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *Adapter) loadApps(ctx context.Context) ([]item.Item, error) {
	apps, err := a.source.FetchApps(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	items := make([]item.Item, len(apps))
	for i, app := range apps {
		action, err := tmpl.Render(a.removeTemplate, app)
		if err != nil {
			return nil, unavailable(fmt.Errorf("app %q: %w", app.ID, err))
		}

		it := item.Item{
			ID:          app.ID,
			Name:        app.Name,
			Description: app.Description,
			Category:    item.CategoryApps,
			Safe:        app.Safe,
			Action:      action,
			IsInstalled: app.IsInstalled,
		}
		if err := it.Validate(); err != nil {
			return nil, unavailable(fmt.Errorf("apps: %w", err))
		}
		items[i] = it
	}
	if err := checkUnique(string(item.CategoryApps), items); err != nil {
		return nil, err
	}
	return items, nil
}

// Presets returns the preset list.
func (a *Adapter) Presets(ctx context.Context) ([]item.Preset, error) {
	presets, err := a.source.FetchPresets(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return presets, nil
}

// LoadAll loads categories concurrently and concatenates the results in
// category order. With no categories given, every known category is loaded.
// The first failure cancels the rest. An id shared by two categories makes
// the snapshot unavailable.
func (a *Adapter) LoadAll(ctx context.Context, categories ...item.Category) ([]item.Item, error) {
	if len(categories) == 0 {
		categories = item.Categories()
	}

	results := make([][]item.Item, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			items, err := a.Load(gctx, c)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []item.Item
	for _, items := range results {
		all = append(all, items...)
	}
	if err := checkUnique("catalog", all); err != nil {
		a.logger.Warn().Err(err).Msg("catalog load failed")
		return nil, err
	}
	return all, nil
}
