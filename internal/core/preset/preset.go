// Package preset resolves named presets into concrete selections.
package preset

import (
	"errors"

	"github.com/colonyops/tweakctl/internal/core/item"
)

// ErrNotFound is returned when a preset id is not known.
var ErrNotFound = errors.New("preset not found")

// Resolve returns the ids in p.Items that are present in catalog. Ids the
// catalog does not contain are dropped silently, and an empty result is valid.
func Resolve(p item.Preset, catalog []item.Item) item.IDSet {
	known := make(item.IDSet, len(catalog))
	for _, it := range catalog {
		known[it.ID] = struct{}{}
	}

	out := make(item.IDSet, len(p.Items))
	for _, id := range p.Items {
		if known.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Find looks up a preset by id.
func Find(presets []item.Preset, id string) (item.Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return item.Preset{}, ErrNotFound
}
