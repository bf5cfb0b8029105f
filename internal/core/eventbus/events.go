// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within tweakctl.
package eventbus

import (
	"github.com/colonyops/tweakctl/internal/core/execution"
	"github.com/colonyops/tweakctl/internal/core/history"
	"github.com/colonyops/tweakctl/internal/core/item"
)

// Event names a kind of published payload.
type Event string

// Keep list sorted A-Z.
const (
	EventBatchCompleted   Event = "batch.completed"
	EventBatchProgress    Event = "batch.progress"
	EventHistoryAppended  Event = "history.appended"
	EventItemRolledBack   Event = "item.rolled-back"
	EventSelectionChanged Event = "selection.changed"
)

// Events returns every event the bus publishes.
func Events() []Event {
	return []Event{
		EventBatchCompleted,
		EventBatchProgress,
		EventHistoryAppended,
		EventItemRolledBack,
		EventSelectionChanged,
	}
}

// BatchCompletedPayload is emitted after the last item of a batch reaches a terminal state.
type BatchCompletedPayload struct {
	BatchID string
	Result  execution.Result
}

// BatchProgressPayload is emitted on every progress transition of a batch.
type BatchProgressPayload struct {
	BatchID  string
	Snapshot execution.Snapshot
}

// HistoryAppendedPayload is emitted when an entry is added to the history log.
type HistoryAppendedPayload struct {
	Entry history.Entry
}

// ItemRolledBackPayload is emitted after a rollback attempt, successful or not.
type ItemRolledBackPayload struct {
	Item item.Item
	Err  error
}

// SelectionChangedPayload is emitted after every selection mutation.
type SelectionChangedPayload struct {
	Selected      []string
	CurrentPreset string
	Count         int
}
