// Package executil provides shell execution utilities.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	maxStderrLen = 500
	maxStdoutLen = 64 << 10
)

// ErrNoShell is returned when a script is run without a shell argv.
var ErrNoShell = errors.New("no shell configured")

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Result is the captured outcome of a script that ran to completion.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// OK reports whether the script exited zero.
func (r Result) OK() bool { return r.ExitCode == 0 }

// RunScript runs script as the final argument of the shell argv prefix, for
// example []string{"sh", "-c"}.
//
// A script that runs and exits non-zero is not an error: the exit code and
// the captured streams are in the Result. Stderr is capped at 500 bytes to
// keep large or ANSI-polluted output out of logs and progress messages.
// The returned error is non-nil only when the process could not be started
// or was stopped by ctx.
func RunScript(ctx context.Context, shell []string, script string) (Result, error) {
	if len(shell) == 0 {
		return Result{}, ErrNoShell
	}

	args := append(append([]string{}, shell[1:]...), script)
	c := exec.CommandContext(ctx, shell[0], args...)

	var stdout, stderr bytes.Buffer
	c.Stdout = &limitedWriter{buf: &stdout, max: maxStdoutLen}
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	err := c.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("run %s: %w", shell[0], ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("run %s: %w", shell[0], err)
	}
}
