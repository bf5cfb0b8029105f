package item

import (
	"maps"
	"slices"
)

// IDSet is an unordered set of item ids.
//
// IDSet values handed out by stores are copies; mutating one never affects
// the store it came from.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, dropping duplicates.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the cardinality.
func (s IDSet) Len() int { return len(s) }

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	if s == nil {
		return IDSet{}
	}
	return maps.Clone(s)
}

// Sorted returns the members in lexical order, the canonical sequence form
// used at persistence and display boundaries.
func (s IDSet) Sorted() []string {
	out := slices.Collect(maps.Keys(s))
	slices.Sort(out)
	return out
}

// Filter returns the items whose ids are members, in item order.
func (s IDSet) Filter(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if s.Has(it.ID) {
			out = append(out, it)
		}
	}
	return out
}
