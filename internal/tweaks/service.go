package tweaks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/tweakctl/internal/core/eventbus"
	"github.com/colonyops/tweakctl/internal/core/execution"
	"github.com/colonyops/tweakctl/internal/core/history"
	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/logging"
	"github.com/colonyops/tweakctl/internal/core/preset"
	"github.com/colonyops/tweakctl/internal/core/selection"
)

var (
	// ErrItemNotFound is returned when an id is not in the current catalog.
	ErrItemNotFound = errors.New("item not found")
	// ErrNoMatch is returned when a select pattern matches no catalog item.
	ErrNoMatch = errors.New("pattern matched no items")
)

// Catalog is the subset of catalog.Adapter the service reads from.
type Catalog interface {
	Load(ctx context.Context, category item.Category) ([]item.Item, error)
	LoadAll(ctx context.Context, categories ...item.Category) ([]item.Item, error)
	Presets(ctx context.Context) ([]item.Preset, error)
}

// Service runs selections through the execution engine and keeps the
// selection store and history in step.
type Service struct {
	catalog  Catalog
	store    *selection.Store
	bus      *eventbus.EventBus
	pipeline *execution.Pipeline
	rollback *execution.Coordinator
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires the service and forwards every selection change to the bus.
func NewService(cat Catalog, store *selection.Store, runner execution.Runner, bus *eventbus.EventBus) *Service {
	s := &Service{
		catalog:  cat,
		store:    store,
		bus:      bus,
		pipeline: execution.NewPipeline(runner),
		rollback: execution.NewCoordinator(runner),
		logger:   logging.Component("tweaks"),
		now:      time.Now,
		newID:    uuid.NewString,
	}

	store.OnChange(func(st selection.State) {
		bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{
			Selected:      st.Selected.Sorted(),
			CurrentPreset: st.CurrentPreset,
			Count:         st.Count(),
		})
	})

	return s
}

// persist saves the selection store. A store without storage is an
// in-memory session and is not an error.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil && !errors.Is(err, selection.ErrNoStorage) {
		return err
	}
	return nil
}

// Items returns the catalog items of one category.
func (s *Service) Items(ctx context.Context, category item.Category) ([]item.Item, error) {
	return s.catalog.Load(ctx, category)
}

// Presets returns the preset list.
func (s *Service) Presets(ctx context.Context) ([]item.Preset, error) {
	return s.catalog.Presets(ctx)
}

// State returns the current selection state.
func (s *Service) State() selection.State {
	return s.store.State()
}

// History returns at most limit entries, newest first. A limit of zero or
// less returns the whole log.
func (s *Service) History(limit int) []history.Entry {
	h := s.store.History()
	if limit > 0 && len(h) > limit {
		h = h[:limit]
	}
	return h
}

// ApplyPreset replaces the selection with the preset's ids that exist in
// the full catalog.
func (s *Service) ApplyPreset(ctx context.Context, id string) (item.Preset, error) {
	presets, err := s.catalog.Presets(ctx)
	if err != nil {
		return item.Preset{}, err
	}
	p, err := preset.Find(presets, id)
	if err != nil {
		return item.Preset{}, err
	}

	all, err := s.catalog.LoadAll(ctx)
	if err != nil {
		return item.Preset{}, err
	}

	s.store.ApplyPreset(p, all)
	s.logger.Info().Str("preset", p.ID).Int("selected", s.store.Count()).Msg("preset applied")
	return p, s.persist(ctx)
}

// Toggle flips each pattern's membership. A pattern containing glob
// metacharacters toggles every catalog id it matches; a plain id is toggled
// as given. It returns the ids that were toggled.
func (s *Service) Toggle(ctx context.Context, patterns ...string) ([]string, error) {
	var ids []string
	var all []item.Item

	for _, pattern := range patterns {
		if !isGlob(pattern) {
			ids = append(ids, pattern)
			continue
		}

		if all == nil {
			var err error
			if all, err = s.catalog.LoadAll(ctx); err != nil {
				return nil, err
			}
		}

		matched, err := matchIDs(pattern, all)
		if err != nil {
			return nil, err
		}
		ids = append(ids, matched...)
	}

	slices.Sort(ids)
	ids = slices.Compact(ids)
	for _, id := range ids {
		s.store.Toggle(id)
	}
	return ids, s.persist(ctx)
}

// SelectCategory replaces the selection with every item of category.
func (s *Service) SelectCategory(ctx context.Context, category item.Category) (int, error) {
	items, err := s.catalog.Load(ctx, category)
	if err != nil {
		return 0, err
	}
	s.store.SelectAll(items)
	return len(items), s.persist(ctx)
}

// ClearSelection empties the selection and the active preset.
func (s *Service) ClearSelection(ctx context.Context) error {
	s.store.DeselectAll()
	return s.persist(ctx)
}

// SelectedItems resolves the selection against the full catalog. Ids the
// catalog no longer contains are returned as dropped.
func (s *Service) SelectedItems(ctx context.Context) (items []item.Item, dropped []string, err error) {
	all, err := s.catalog.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	st := s.store.State()
	items = st.Selected.Filter(all)

	known := item.Index(all)
	for _, id := range st.Selected.Sorted() {
		if _, ok := known[id]; !ok {
			dropped = append(dropped, id)
		}
	}
	return items, dropped, nil
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// ClearOnSuccess empties the selection when every item succeeded.
	ClearOnSuccess bool
}

// ApplyReport describes a finished batch.
type ApplyReport struct {
	BatchID string
	Items   []item.Item
	Dropped []string
	Result  execution.Result
	Entry   *history.Entry
}

// Apply resolves the selection and runs it as one batch. Every snapshot goes
// to observer, when set, and to the bus. A history entry is recorded for any
// non-empty batch. An empty selection runs nothing and records nothing.
func (s *Service) Apply(ctx context.Context, opts ApplyOptions, observer execution.Observer) (ApplyReport, error) {
	items, dropped, err := s.SelectedItems(ctx)
	if err != nil {
		return ApplyReport{}, err
	}
	if len(dropped) > 0 {
		s.logger.Warn().Strs("ids", dropped).Msg("selected ids not in catalog, skipping")
	}

	report, err := s.ApplyItems(ctx, items, opts, observer)
	report.Dropped = dropped
	return report, err
}

// ApplyItems runs items as one batch without consulting the catalog again.
// Callers that showed the items to the user first pass the same slice here
// so the batch that runs is the one that was confirmed.
func (s *Service) ApplyItems(ctx context.Context, items []item.Item, opts ApplyOptions, observer execution.Observer) (ApplyReport, error) {
	report := ApplyReport{
		BatchID: s.newID(),
		Items:   items,
	}
	if len(items) == 0 {
		report.Result = execution.Result{Success: true, Errors: []string{}}
		return report, nil
	}

	ctx = logging.WithBatchID(ctx, report.BatchID)

	report.Result = s.pipeline.Run(ctx, items, func(snap execution.Snapshot) {
		s.bus.PublishBatchProgress(eventbus.BatchProgressPayload{BatchID: report.BatchID, Snapshot: snap})
		if observer != nil {
			observer(snap)
		}
	})
	s.bus.PublishBatchCompleted(eventbus.BatchCompletedPayload{BatchID: report.BatchID, Result: report.Result})

	entry := history.Entry{
		ID:        s.newID(),
		Timestamp: s.now(),
		Items:     item.IDs(items),
		Type:      history.TypeApply,
	}
	s.store.AddToHistory(entry)
	s.bus.PublishHistoryAppended(eventbus.HistoryAppendedPayload{Entry: entry})
	report.Entry = &entry

	if opts.ClearOnSuccess && report.Result.Success {
		s.store.DeselectAll()
	}

	if err := s.persist(ctx); err != nil {
		return report, fmt.Errorf("save after apply: %w", err)
	}
	return report, nil
}

// Rollback runs the inverse action of the item with the given id. It does
// not change the selection or the history log.
func (s *Service) Rollback(ctx context.Context, id string) (item.Item, error) {
	it, err := s.Find(ctx, id)
	if err != nil {
		return item.Item{}, err
	}

	err = s.rollback.Rollback(ctx, it)
	s.bus.PublishItemRolledBack(eventbus.ItemRolledBackPayload{Item: it, Err: err})
	return it, err
}

// Find returns the catalog item with the given id.
func (s *Service) Find(ctx context.Context, id string) (item.Item, error) {
	all, err := s.catalog.LoadAll(ctx)
	if err != nil {
		return item.Item{}, err
	}
	it, ok := item.Index(all)[id]
	if !ok {
		return item.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return it, nil
}

func isGlob(s string) bool {
	return slices.ContainsFunc([]rune(s), func(r rune) bool {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
		return false
	})
}

func matchIDs(pattern string, items []item.Item) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var out []string
	for _, it := range items {
		if ok, _ := doublestar.Match(pattern, it.ID); ok {
			out = append(out, it.ID)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
	}
	return out, nil
}
