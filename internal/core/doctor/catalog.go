package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/tweakctl/internal/core/item"
)

// CatalogLoader is the subset of catalog.Adapter the check exercises.
type CatalogLoader interface {
	Load(ctx context.Context, category item.Category) ([]item.Item, error)
	Presets(ctx context.Context) ([]item.Preset, error)
}

// CatalogCheck loads every category and the preset list.
type CatalogCheck struct {
	loader CatalogLoader
}

// NewCatalogCheck creates a catalog check.
func NewCatalogCheck(loader CatalogLoader) *CatalogCheck {
	return &CatalogCheck{loader: loader}
}

func (c *CatalogCheck) Name() string {
	return "Catalog"
}

func (c *CatalogCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	known := make(map[string]item.Category)
	var shared []CheckItem

	for _, cat := range item.Categories() {
		items, err := c.loader.Load(ctx, cat)
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  string(cat),
				Status: StatusFail,
				Detail: err.Error(),
			})
			continue
		}

		for _, it := range items {
			if prev, ok := known[it.ID]; ok && prev != cat {
				shared = append(shared, CheckItem{
					Label:  "id " + it.ID,
					Status: StatusWarn,
					Detail: fmt.Sprintf("used in both %s and %s; the catalog cannot be applied", prev, cat),
				})
				continue
			}
			known[it.ID] = cat
		}

		status := StatusPass
		if len(items) == 0 {
			status = StatusWarn
		}
		result.Items = append(result.Items, CheckItem{
			Label:  string(cat),
			Status: status,
			Detail: fmt.Sprintf("%d item(s)", len(items)),
		})
	}

	result.Items = append(result.Items, shared...)

	presets, err := c.loader.Presets(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "presets",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	for _, p := range presets {
		var missing int
		for _, id := range p.Items {
			if _, ok := known[id]; !ok {
				missing++
			}
		}
		if missing > 0 {
			result.Items = append(result.Items, CheckItem{
				Label:  "preset " + p.ID,
				Status: StatusWarn,
				Detail: fmt.Sprintf("%d of %d item(s) not in catalog", missing, len(p.Items)),
			})
		}
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "presets",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d preset(s)", len(presets)),
	})
	return result
}
