// Package runner provides the shell-backed action runner.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/tweakctl/internal/core/execution"
	"github.com/colonyops/tweakctl/internal/core/logging"
	"github.com/colonyops/tweakctl/pkg/executil"
)

// UnsupportedPlatform is reported for every action when no shell is configured.
const UnsupportedPlatform = "This application only runs on Windows"

// Shell runs action descriptors as scripts through a shell argv prefix such
// as powershell -Command.
type Shell struct {
	argv    []string
	timeout time.Duration
	logger  zerolog.Logger
}

var _ execution.Runner = (*Shell)(nil)

// NewShell creates a runner. An empty argv yields a runner that fails every
// action with UnsupportedPlatform. A zero timeout disables the per-action
// deadline.
func NewShell(argv []string, timeout time.Duration) *Shell {
	return &Shell{
		argv:    argv,
		timeout: timeout,
		logger:  logging.Component("runner"),
	}
}

// RunAction implements execution.Runner.
//
// A non-zero exit is a reported failure carrying stderr, or the exit code
// when stderr is empty. A process that cannot be started is also a reported
// failure with the OS error. Only a timeout is returned as an error.
func (s *Shell) RunAction(ctx context.Context, action string, rollback bool) (execution.Outcome, error) {
	if len(s.argv) == 0 {
		return execution.Outcome{Error: UnsupportedPlatform}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := executil.RunScript(ctx, s.argv, action)

	log := s.logger.With().
		Bool("rollback", rollback).
		Dur("took", time.Since(start)).
		Logger()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Dur("timeout", s.timeout).Msg("action timed out")
		return execution.Outcome{}, fmt.Errorf("action timed out after %s", s.timeout)
	case errors.Is(err, context.Canceled):
		return execution.Outcome{}, err
	case err != nil:
		log.Warn().Err(err).Msg("action could not start")
		return execution.Outcome{Error: err.Error()}, nil
	case !res.OK():
		msg := res.Stderr
		if msg == "" {
			msg = fmt.Sprintf("Command failed with exit code: %d", res.ExitCode)
		}
		log.Debug().Int("exit_code", res.ExitCode).Msg("action failed")
		return execution.Outcome{Output: res.Stdout, Error: msg}, nil
	default:
		log.Debug().Msg("action succeeded")
		return execution.Outcome{Success: true, Output: res.Stdout}, nil
	}
}
