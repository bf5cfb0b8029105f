package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers published payloads to subscribers on a single
// dispatch goroutine, preserving publish order.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size. Publishing to a full
// buffer drops the event and fires OnDrop hooks.
func New(bufSize int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, bufSize),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled. Events still buffered at
// cancellation are delivered before Start returns.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case env := <-bus.ch:
			bus.dispatch(env)
		case <-ctx.Done():
			for {
				select {
				case env := <-bus.ch:
					bus.dispatch(env)
				default:
					return
				}
			}
		}
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.hooks.run(hookPanic, env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func subscribe[T any](bus *EventBus, event Event, fn func(T)) {
	bus.subscribe(event, func(p any) {
		if v, ok := p.(T); ok {
			fn(v)
		}
	})
}

// SubscribeAll registers fn for every event with the untyped payload.
func SubscribeAll(bus *EventBus, fn func(Event, any)) {
	for _, event := range Events() {
		bus.subscribe(event, func(p any) { fn(event, p) })
	}
}

// PublishBatchCompleted publishes a batch.completed event.
func (bus *EventBus) PublishBatchCompleted(p BatchCompletedPayload) {
	bus.send(EventBatchCompleted, p)
}

// SubscribeBatchCompleted registers fn for batch.completed events.
func (bus *EventBus) SubscribeBatchCompleted(fn func(BatchCompletedPayload)) {
	subscribe(bus, EventBatchCompleted, fn)
}

// PublishBatchProgress publishes a batch.progress event.
func (bus *EventBus) PublishBatchProgress(p BatchProgressPayload) {
	bus.send(EventBatchProgress, p)
}

// SubscribeBatchProgress registers fn for batch.progress events.
func (bus *EventBus) SubscribeBatchProgress(fn func(BatchProgressPayload)) {
	subscribe(bus, EventBatchProgress, fn)
}

// PublishHistoryAppended publishes a history.appended event.
func (bus *EventBus) PublishHistoryAppended(p HistoryAppendedPayload) {
	bus.send(EventHistoryAppended, p)
}

// SubscribeHistoryAppended registers fn for history.appended events.
func (bus *EventBus) SubscribeHistoryAppended(fn func(HistoryAppendedPayload)) {
	subscribe(bus, EventHistoryAppended, fn)
}

// PublishItemRolledBack publishes an item.rolled-back event.
func (bus *EventBus) PublishItemRolledBack(p ItemRolledBackPayload) {
	bus.send(EventItemRolledBack, p)
}

// SubscribeItemRolledBack registers fn for item.rolled-back events.
func (bus *EventBus) SubscribeItemRolledBack(fn func(ItemRolledBackPayload)) {
	subscribe(bus, EventItemRolledBack, fn)
}

// PublishSelectionChanged publishes a selection.changed event.
func (bus *EventBus) PublishSelectionChanged(p SelectionChangedPayload) {
	bus.send(EventSelectionChanged, p)
}

// SubscribeSelectionChanged registers fn for selection.changed events.
func (bus *EventBus) SubscribeSelectionChanged(fn func(SelectionChangedPayload)) {
	subscribe(bus, EventSelectionChanged, fn)
}
