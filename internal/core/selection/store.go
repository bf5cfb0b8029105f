// Package selection holds the selected item ids, the active preset, and the
// history log, with an explicit load/save boundary to durable storage.
package selection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/tweakctl/internal/core/history"
	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/kv"
	"github.com/colonyops/tweakctl/internal/core/logging"
	"github.com/colonyops/tweakctl/internal/core/preset"
)

// StorageKey is the fixed namespace the state is persisted under.
const StorageKey = "tweakctl-storage"

// ErrNoStorage is returned by Load and Save on a store built without a KV.
var ErrNoStorage = errors.New("selection: no storage configured")

// State is the value of the store at one point in time. Values returned by
// the store are copies and may be modified freely.
type State struct {
	Selected      item.IDSet
	CurrentPreset string
	History       []history.Entry
}

// Count returns the number of selected ids.
func (s State) Count() int { return s.Selected.Len() }

func (s State) clone() State {
	return State{
		Selected:      s.Selected.Clone(),
		CurrentPreset: s.CurrentPreset,
		History:       slices.Clone(s.History),
	}
}

// persisted is the on-disk layout. The set is stored as a list; order
// carries no meaning.
type persisted struct {
	SelectedItems []string        `json:"selectedItems"`
	CurrentPreset *string         `json:"currentPreset"`
	History       []history.Entry `json:"history"`
}

// Store is the process-wide selection state. All mutations replace the
// whole state under one lock, so readers never see a partial update.
type Store struct {
	mu    sync.RWMutex
	state State
	count int

	// notifyMu serializes observer delivery so observers see mutations in
	// the order they were applied.
	notifyMu  sync.Mutex
	observers []func(State)

	kv     kv.KV
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKV sets the durable storage used by Load and Save.
func WithKV(k kv.KV) Option {
	return func(s *Store) { s.kv = k }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		state:  State{Selected: item.IDSet{}},
		logger: logging.Component("selection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to receive the new state after every mutation.
// Observers run synchronously on the mutating goroutine and must not
// mutate the store.
func (s *Store) OnChange(fn func(State)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) mutate(fn func(cur State) State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next := fn(s.state)
	s.state = next
	s.count = next.Selected.Len()
	s.mu.Unlock()

	for _, obs := range s.observers {
		obs(next.clone())
	}
}

// Toggle flips membership of id. Unknown ids are accepted.
func (s *Store) Toggle(id string) {
	s.mutate(func(cur State) State {
		sel := cur.Selected.Clone()
		if sel.Has(id) {
			delete(sel, id)
		} else {
			sel[id] = struct{}{}
		}
		cur.Selected = sel
		return cur
	})
}

// SelectAll replaces the selection with the ids of items.
func (s *Store) SelectAll(items []item.Item) {
	sel := item.NewIDSet(item.IDs(items)...)
	s.mutate(func(cur State) State {
		cur.Selected = sel
		return cur
	})
}

// DeselectAll empties the selection and clears the active preset.
func (s *Store) DeselectAll() {
	s.mutate(func(cur State) State {
		cur.Selected = item.IDSet{}
		cur.CurrentPreset = ""
		return cur
	})
}

// ApplyPreset replaces the selection with the preset ids present in items
// and marks p as the active preset.
func (s *Store) ApplyPreset(p item.Preset, items []item.Item) {
	sel := preset.Resolve(p, items)
	s.mutate(func(cur State) State {
		cur.Selected = sel
		cur.CurrentPreset = p.ID
		return cur
	})
}

// SetPreset marks a preset active without touching the selection.
func (s *Store) SetPreset(id string) {
	s.mutate(func(cur State) State {
		cur.CurrentPreset = id
		return cur
	})
}

// AddToHistory prepends entry, keeping at most history.MaxEntries.
func (s *Store) AddToHistory(entry history.Entry) {
	s.mutate(func(cur State) State {
		cur.History = history.Prepend(cur.History, entry)
		return cur
	})
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Selected returns the selected ids in sorted order.
func (s *Store) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Selected.Sorted()
}

// Has reports whether id is selected.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Selected.Has(id)
}

// Count returns the number of selected ids.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// CurrentPreset returns the active preset id, or "" when none is active.
func (s *Store) CurrentPreset() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentPreset
}

// History returns the history log, newest first.
func (s *Store) History() []history.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.History)
}

// Load replaces the in-memory state with the persisted one. A missing key
// or missing fields load as empty. Duplicate ids collapse. Observers are
// not notified.
func (s *Store) Load(ctx context.Context) error {
	if s.kv == nil {
		return ErrNoStorage
	}

	var p persisted
	if err := s.kv.Get(ctx, StorageKey, &p); err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("load selection: %w", err)
		}
		s.logger.Debug().Msg("no persisted state, starting empty")
	}

	next := State{
		Selected: item.NewIDSet(p.SelectedItems...),
		History:  p.History,
	}
	if p.CurrentPreset != nil {
		next.CurrentPreset = *p.CurrentPreset
	}
	if len(next.History) > history.MaxEntries {
		next.History = next.History[:history.MaxEntries]
	}

	s.mu.Lock()
	s.state = next
	s.count = next.Selected.Len()
	s.mu.Unlock()

	s.logger.Debug().
		Int("selected", next.Selected.Len()).
		Int("history", len(next.History)).
		Msg("selection loaded")
	return nil
}

// Save writes the selection, active preset, and history.
func (s *Store) Save(ctx context.Context) error {
	if s.kv == nil {
		return ErrNoStorage
	}

	st := s.State()
	p := persisted{
		SelectedItems: st.Selected.Sorted(),
		History:       st.History,
	}
	if p.SelectedItems == nil {
		p.SelectedItems = []string{}
	}
	if p.History == nil {
		p.History = []history.Entry{}
	}
	if st.CurrentPreset != "" {
		p.CurrentPreset = &st.CurrentPreset
	}

	if err := s.kv.Set(ctx, StorageKey, p); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}
