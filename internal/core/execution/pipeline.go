package execution

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/logging"
)

// missingAction is recorded for items that reach the pipeline without a
// forward action. The runner is not called for them.
const missingAction = "item has no command"

// Pipeline runs items one at a time, in input order, against a Runner.
//
// A failing item never stops the batch. There is no cancellation: once
// started, every item is attempted. The context is forwarded to the runner
// so it can bound its own work, but the pipeline does not consult it.
type Pipeline struct {
	runner Runner
	logger zerolog.Logger
}

// NewPipeline creates a pipeline that executes actions through runner.
func NewPipeline(runner Runner, opts ...Option) *Pipeline {
	return &Pipeline{
		runner: runner,
		logger: buildOptions("pipeline", opts),
	}
}

// Run executes items sequentially and returns the aggregate result. If
// observer is non-nil it receives a fresh snapshot after every transition.
// An empty item list is a successful no-op.
func (p *Pipeline) Run(ctx context.Context, items []item.Item, observer Observer) Result {
	res := Result{Errors: []string{}}
	if len(items) == 0 {
		res.Success = true
		return res
	}

	log := logging.WithContext(ctx, p.logger)
	log.Info().Int("items", len(items)).Msg("batch started")

	var t tracker
	notify := func() {
		if observer != nil {
			observer(t.snapshot())
		}
	}

	for _, it := range items {
		t.enqueue(it.ID, it.Name)
		t.transition(StatusRunning, "")
		notify()

		msg := p.execute(ctx, it)
		if msg == "" {
			t.transition(StatusCompleted, "")
			log.Debug().Str("item", it.ID).Msg("item completed")
		} else {
			t.transition(StatusFailed, msg)
			res.Errors = append(res.Errors, it.Name+": "+msg)
			log.Warn().Str("item", it.ID).Str("error", msg).Msg("item failed")
		}
		notify()
	}

	res.Success = len(res.Errors) == 0
	log.Info().
		Bool("success", res.Success).
		Int("failed", len(res.Errors)).
		Msg("batch finished")
	return res
}

// execute runs one item and returns its failure message, or "" on success.
func (p *Pipeline) execute(ctx context.Context, it item.Item) string {
	if it.Action == "" {
		return missingAction
	}
	out, err := p.runner.RunAction(ctx, it.Action, false)
	return failureMessage(out, err)
}

// Batch is a pipeline run executing in the background.
type Batch struct {
	snapshots chan Snapshot
	done      chan struct{}
	result    Result
}

// Start runs items in a new goroutine and streams snapshots as they happen.
//
// The snapshot channel is buffered for every transition of the batch, so
// the run never blocks on a slow or absent reader.
func (p *Pipeline) Start(ctx context.Context, items []item.Item) *Batch {
	b := &Batch{
		// Two transitions per item: running, then a terminal state.
		snapshots: make(chan Snapshot, 2*len(items)),
		done:      make(chan struct{}),
	}

	go func() {
		defer close(b.done)
		defer close(b.snapshots)
		b.result = p.Run(ctx, items, func(s Snapshot) {
			b.snapshots <- s
		})
	}()

	return b
}

// Snapshots returns the finite stream of progress snapshots. The channel is
// closed once the batch finishes and cannot be replayed.
func (b *Batch) Snapshots() <-chan Snapshot {
	return b.snapshots
}

// Done is closed when the batch finishes.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch finishes and returns its result.
func (b *Batch) Wait() Result {
	<-b.done
	return b.result
}
