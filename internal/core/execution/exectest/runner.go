// Package exectest provides a scripted action runner for tests.
package exectest

import (
	"context"
	"sync"

	"github.com/colonyops/tweakctl/internal/core/execution"
)

// Call captures a single RunAction invocation.
type Call struct {
	Action   string
	Rollback bool
}

// Runner records calls and replies from configured maps.
// Actions with no configured outcome or error succeed.
type Runner struct {
	mu    sync.Mutex
	calls []Call

	// Outcomes maps an action descriptor to the outcome reported for it.
	Outcomes map[string]execution.Outcome

	// Errors maps an action descriptor to a transport error.
	Errors map[string]error

	// OnRun, when set, is called before the reply is produced.
	OnRun func(Call)
}

var _ execution.Runner = (*Runner)(nil)

// RunAction records the call and returns the configured reply.
func (r *Runner) RunAction(ctx context.Context, action string, rollback bool) (execution.Outcome, error) {
	call := Call{Action: action, Rollback: rollback}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	hook := r.OnRun
	var (
		out execution.Outcome
		err error
		ok  bool
	)
	if r.Errors != nil {
		err = r.Errors[action]
	}
	if r.Outcomes != nil {
		out, ok = r.Outcomes[action]
	}
	r.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return execution.Outcome{}, err
	}
	if !ok {
		out = execution.Outcome{Success: true}
	}
	return out, nil
}

// Calls returns a copy of the recorded calls.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Actions returns the recorded action descriptors in call order.
func (r *Runner) Actions() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Action
	}
	return out
}

// Reset clears recorded calls.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
