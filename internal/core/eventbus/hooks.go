package eventbus

import (
	"slices"
	"sync"
)

type hookKind int

const (
	hookPublish hookKind = iota
	hookDrop
	hookPanic
)

// hookFn is the common hook shape. recovered is nil except for panic hooks.
type hookFn func(event Event, payload, recovered any)

type hooks struct {
	mu  sync.RWMutex
	fns map[hookKind][]hookFn
}

func (h *hooks) add(kind hookKind, fn hookFn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fns == nil {
		h.fns = make(map[hookKind][]hookFn)
	}
	h.fns[kind] = append(h.fns[kind], fn)
}

// run calls every hook of kind. A panicking hook is contained so it cannot
// take down the dispatch loop.
func (h *hooks) run(kind hookKind, event Event, payload, recovered any) {
	h.mu.RLock()
	fns := slices.Clone(h.fns[kind])
	h.mu.RUnlock()

	for _, fn := range fns {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}

// OnPublish registers a hook that fires after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooks.add(hookPublish, func(e Event, p, _ any) { fn(e, p) })
}

// OnDrop registers a hook that fires when an event is dropped due to a full buffer.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooks.add(hookDrop, func(e Event, p, _ any) { fn(e, p) })
}

// OnPanic registers a hook that fires when a subscriber panics.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooks.add(hookPanic, fn)
}

// send enqueues an event without blocking. Used by the typed Publish methods.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.hooks.run(hookPublish, event, payload, nil)
	default:
		bus.hooks.run(hookDrop, event, payload, nil)
	}
}
