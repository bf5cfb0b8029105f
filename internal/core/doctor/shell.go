package doctor

import (
	"context"
	"os/exec"
	"strings"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ShellCheck verifies that the configured action shell can be found.
type ShellCheck struct {
	argv []string
}

// NewShellCheck creates a shell check for the runner argv prefix.
func NewShellCheck(argv []string) *ShellCheck {
	return &ShellCheck{argv: argv}
}

func (c *ShellCheck) Name() string {
	return "Shell"
}

func (c *ShellCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if len(c.argv) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "runner.shell",
			Status: StatusFail,
			Detail: "not configured; actions will fail on this host",
		})
		return result
	}

	path, err := lookPathFunc(c.argv[0])
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.argv[0],
			Status: StatusFail,
			Detail: "not found on PATH",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.argv[0],
		Status: StatusPass,
		Detail: path + " " + strings.Join(c.argv[1:], " "),
	})
	return result
}
