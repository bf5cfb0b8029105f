// Package item defines the tweak item, category, and preset domain types.
package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colonyops/tweakctl/internal/core/validate"
)

// Category groups items by the kind of system change they make.
type Category string

const (
	CategoryApps     Category = "apps"
	CategoryPrivacy  Category = "privacy"
	CategoryServices Category = "services"
	CategoryRegistry Category = "registry"
	CategoryUpdates  Category = "updates"
	CategorySystem   Category = "system"
)

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryApps,
		CategoryPrivacy,
		CategoryServices,
		CategoryRegistry,
		CategoryUpdates,
		CategorySystem,
	}
}

// ErrUnknownCategory is returned by ParseCategory for names outside the fixed set.
var ErrUnknownCategory = errors.New("unknown category")

// ParseCategory converts a user supplied name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Item is a single configurable action.
//
// Action and RollbackAction are opaque descriptors handed to the action runner.
// An empty RollbackAction marks the item as irreversible.
type Item struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Category       Category `json:"category" yaml:"category"`
	Safe           bool     `json:"safe" yaml:"safe"`
	Action         string   `json:"command" yaml:"command"`
	RollbackAction string   `json:"rollbackCommand,omitempty" yaml:"rollbackCommand,omitempty"`
	IsInstalled    *bool    `json:"isInstalled,omitempty" yaml:"isInstalled,omitempty"`
}

// Reversible reports whether the item carries an inverse action.
func (i Item) Reversible() bool {
	return i.RollbackAction != ""
}

// Validate checks the invariants every executable item must satisfy.
func (i Item) Validate() error {
	if err := validate.ID(i.ID); err != nil {
		return fmt.Errorf("id %w", err)
	}
	if err := validate.Required(i.Action); err != nil {
		return fmt.Errorf("item %q: command %w", i.ID, err)
	}
	return nil
}

// Index maps item ids to items. Later duplicates win.
func Index(items []Item) map[string]Item {
	idx := make(map[string]Item, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx
}

// DuplicateIDs returns the ids that occur more than once, in order of their
// second occurrence.
func DuplicateIDs(items []Item) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, it := range items {
		seen[it.ID]++
		if seen[it.ID] == 2 {
			dups = append(dups, it.ID)
		}
	}
	return dups
}

// IDs returns the ids of items in input order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// Preset is a named, curated list of item ids.
type Preset struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Items       []string `json:"items" yaml:"items"`
}
