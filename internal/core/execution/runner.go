// Package execution drives tweak items through the action runner: the
// sequential batch pipeline and the rollback coordinator.
package execution

import "context"

// Outcome is what the action runner reports for one call. Output is passed
// through untouched; only Success and Error are interpreted.
type Outcome struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

// Runner performs a single forward or inverse action.
//
// A non-nil error means the call itself failed (the collaborator could not
// be reached or the action could not be started). A reported failure is an
// Outcome with Success false and a nil error.
type Runner interface {
	RunAction(ctx context.Context, action string, rollback bool) (Outcome, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, action string, rollback bool) (Outcome, error)

// RunAction calls f.
func (f RunnerFunc) RunAction(ctx context.Context, action string, rollback bool) (Outcome, error) {
	return f(ctx, action, rollback)
}

// unknownError is reported when the runner fails without a message.
const unknownError = "Unknown error"

// failureMessage maps a runner result to the message recorded for a failed
// action, or "" when the action succeeded.
func failureMessage(out Outcome, err error) string {
	switch {
	case err != nil:
		return err.Error()
	case out.Success:
		return ""
	case out.Error != "":
		return out.Error
	default:
		return unknownError
	}
}
