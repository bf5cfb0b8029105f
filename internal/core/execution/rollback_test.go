package execution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tweakctl/internal/core/execution"
	"github.com/colonyops/tweakctl/internal/core/execution/exectest"
	"github.com/colonyops/tweakctl/internal/core/item"
)

func newCoordinator(r execution.Runner) *execution.Coordinator {
	return execution.NewCoordinator(r, execution.WithLogger(zerolog.Nop()))
}

func TestRollback_NoRollbackAction(t *testing.T) {
	runner := &exectest.Runner{}

	err := newCoordinator(runner).Rollback(context.Background(), item.Item{ID: "app", Action: "remove"})

	require.ErrorIs(t, err, execution.ErrNoRollback)
	assert.Empty(t, runner.Calls(), "runner must not be called")

	var actionErr *execution.ActionError
	assert.False(t, errors.As(err, &actionErr), "must be distinguishable from a runner failure")
}

func TestRollback_Success(t *testing.T) {
	runner := &exectest.Runner{}
	it := item.Item{ID: "telemetry", Action: "disable", RollbackAction: "enable"}

	err := newCoordinator(runner).Rollback(context.Background(), it)

	require.NoError(t, err)
	assert.Equal(t, []exectest.Call{{Action: "enable", Rollback: true}}, runner.Calls())
}

func TestRollback_Failures(t *testing.T) {
	transport := errors.New("pipe closed")

	tests := []struct {
		name      string
		runner    *exectest.Runner
		wantMsg   string
		transport bool
	}{
		{
			name:    "reported failure with message",
			runner:  &exectest.Runner{Outcomes: map[string]execution.Outcome{"enable": {Error: "key locked"}}},
			wantMsg: "key locked",
		},
		{
			name:    "reported failure without message",
			runner:  &exectest.Runner{Outcomes: map[string]execution.Outcome{"enable": {}}},
			wantMsg: "Unknown error",
		},
		{
			name:      "transport failure",
			runner:    &exectest.Runner{Errors: map[string]error{"enable": transport}},
			wantMsg:   "pipe closed",
			transport: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := item.Item{ID: "telemetry", Action: "disable", RollbackAction: "enable"}

			err := newCoordinator(tt.runner).Rollback(context.Background(), it)

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.NotErrorIs(t, err, execution.ErrNoRollback)

			if tt.transport {
				var te *execution.TransportError
				require.ErrorAs(t, err, &te)
				assert.ErrorIs(t, err, transport)
				assert.Equal(t, "telemetry", te.ItemID)
			} else {
				var ae *execution.ActionError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, "telemetry", ae.ItemID)
			}
		})
	}
}
