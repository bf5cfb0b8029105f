package execution

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/logging"
)

// ErrNoRollback is returned for items without an inverse action. The runner
// is not called.
var ErrNoRollback = errors.New("no rollback command available for this item")

// ActionError is a failure reported by the runner.
type ActionError struct {
	ItemID  string
	Message string
}

func (e *ActionError) Error() string { return e.Message }

// TransportError is a failure to reach or start the runner.
type TransportError struct {
	ItemID string
	Err    error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Coordinator invokes inverse actions.
//
// It keeps no state and never touches batch progress, the selection, or the
// history log. Callers must not roll back an item while a batch touching
// the same item is running; nothing here enforces that.
type Coordinator struct {
	runner Runner
	logger zerolog.Logger
}

// NewCoordinator creates a rollback coordinator backed by runner.
func NewCoordinator(runner Runner, opts ...Option) *Coordinator {
	return &Coordinator{
		runner: runner,
		logger: buildOptions("rollback", opts),
	}
}

// Rollback runs the item's inverse action. A nil error means success.
func (c *Coordinator) Rollback(ctx context.Context, it item.Item) error {
	log := logging.WithContext(ctx, c.logger).With().Str("item", it.ID).Logger()

	if !it.Reversible() {
		log.Debug().Msg("rollback unavailable")
		return ErrNoRollback
	}

	out, err := c.runner.RunAction(ctx, it.RollbackAction, true)
	if err != nil {
		log.Warn().Err(err).Msg("rollback transport failure")
		return &TransportError{ItemID: it.ID, Err: err}
	}
	if msg := failureMessage(out, nil); msg != "" {
		log.Warn().Str("error", msg).Msg("rollback failed")
		return &ActionError{ItemID: it.ID, Message: msg}
	}

	log.Info().Msg("rollback completed")
	return nil
}
