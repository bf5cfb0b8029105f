package eventbus_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tweakctl/internal/core/eventbus"
	"github.com/colonyops/tweakctl/internal/core/eventbus/testbus"
	"github.com/colonyops/tweakctl/internal/core/history"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// A nop logger must not panic on any hook.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishSelectionChanged(eventbus.SelectionChangedPayload{Count: 1})
	tb.PublishHistoryAppended(eventbus.HistoryAppendedPayload{Entry: history.Entry{ID: "h1"}})

	tb.AssertPublished(t, eventbus.EventHistoryAppended)
}

func TestEventBus_PreservesOrder(t *testing.T) {
	tb := testbus.New(t)

	for i := range 5 {
		tb.PublishSelectionChanged(eventbus.SelectionChangedPayload{Count: i})
	}
	tb.PublishBatchCompleted(eventbus.BatchCompletedPayload{BatchID: "done"})
	tb.AssertPublished(t, eventbus.EventBatchCompleted)

	payloads := tb.Of(eventbus.EventSelectionChanged)
	require.Len(t, payloads, 5)
	for i, p := range payloads {
		assert.Equal(t, i, p.(eventbus.SelectionChangedPayload).Count)
	}
}

func TestEventBus_DropWhenFull(t *testing.T) {
	bus := eventbus.New(1)

	var dropped atomic.Int32
	bus.OnDrop(func(eventbus.Event, any) { dropped.Add(1) })

	// Not started: the first publish fills the buffer, the second is dropped.
	bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{})
	bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{})

	assert.Equal(t, int32(1), dropped.Load())
}

func TestEventBus_SubscriberPanicRecovered(t *testing.T) {
	bus := eventbus.New(4)

	var panics atomic.Int32
	bus.OnPanic(func(eventbus.Event, any, any) { panics.Add(1) })

	delivered := make(chan struct{})
	bus.SubscribeSelectionChanged(func(eventbus.SelectionChangedPayload) { panic("boom") })
	bus.SubscribeSelectionChanged(func(eventbus.SelectionChangedPayload) { close(delivered) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)

	bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{})

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("second subscriber never ran")
	}
	assert.Equal(t, int32(1), panics.Load())
}

func TestEventBus_StartDrainsOnCancel(t *testing.T) {
	bus := eventbus.New(8)

	var got atomic.Int32
	bus.SubscribeSelectionChanged(func(eventbus.SelectionChangedPayload) { got.Add(1) })

	bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{})
	bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Start(ctx)

	assert.Equal(t, int32(2), got.Load())
}

func TestSubscribeAll(t *testing.T) {
	bus := eventbus.New(8)

	got := make(chan eventbus.Event, 8)
	eventbus.SubscribeAll(bus, func(e eventbus.Event, _ any) { got <- e })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)

	bus.PublishBatchProgress(eventbus.BatchProgressPayload{BatchID: "b"})
	bus.PublishItemRolledBack(eventbus.ItemRolledBackPayload{})

	for _, want := range []eventbus.Event{eventbus.EventBatchProgress, eventbus.EventItemRolledBack} {
		select {
		case e := <-got:
			assert.Equal(t, want, e)
		case <-time.After(time.Second):
			t.Fatalf("no delivery for %s", want)
		}
	}
}

func TestEventBus_PanickingHookContained(t *testing.T) {
	bus := eventbus.New(4)

	var calls atomic.Int32
	bus.OnPublish(func(eventbus.Event, any) { panic("hook") })
	bus.OnPublish(func(eventbus.Event, any) { calls.Add(1) })

	assert.NotPanics(t, func() {
		bus.PublishSelectionChanged(eventbus.SelectionChangedPayload{})
	})
	assert.Equal(t, int32(1), calls.Load())
}
