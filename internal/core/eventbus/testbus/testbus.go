// Package testbus provides a started event bus that records every payload
// for assertions in tests.
package testbus

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/tweakctl/internal/core/eventbus"
)

// pollInterval is how often WaitFor re-checks the recorded events.
const pollInterval = 5 * time.Millisecond

type record struct {
	event   eventbus.Event
	payload any
}

// Bus embeds a real EventBus. Publish through it as usual; payloads are
// recorded once the dispatch goroutine delivers them.
type Bus struct {
	*eventbus.EventBus

	mu      sync.Mutex
	records []record
}

// New starts a recording bus that stops when the test ends.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New(256)}

	eventbus.SubscribeAll(tb.EventBus, tb.record)

	ctx, cancel := context.WithCancel(context.Background())
	go tb.Start(ctx)
	t.Cleanup(cancel)

	return tb
}

func (tb *Bus) record(event eventbus.Event, payload any) {
	tb.mu.Lock()
	tb.records = append(tb.records, record{event: event, payload: payload})
	tb.mu.Unlock()
}

// Of returns the recorded payloads of one event, in delivery order.
func (tb *Bus) Of(event eventbus.Event) []any {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	var out []any
	for _, r := range tb.records {
		if r.event == event {
			out = append(out, r.payload)
		}
	}
	return out
}

func (tb *Bus) seen(event eventbus.Event) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return slices.ContainsFunc(tb.records, func(r record) bool { return r.event == event })
}

// WaitFor polls until event has been delivered or timeout elapses.
func (tb *Bus) WaitFor(event eventbus.Event, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if tb.seen(event) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

// AssertPublished fails the test if event is not delivered within 500ms.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if !tb.WaitFor(event, 500*time.Millisecond) {
		t.Errorf("event %q was not published", event)
	}
}

// AssertNotPublished fails the test if event is delivered within wait.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	if tb.WaitFor(event, wait) {
		t.Errorf("event %q was published", event)
	}
}
