package datadir

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/tweakctl/pkg/executil"
)

// DefaultInstalledQuery lists installed AppX package names, one per line.
const DefaultInstalledQuery = "Get-AppxPackage -AllUsers | Select-Object -ExpandProperty Name"

// ShellProbe lists installed packages by running a query script through a
// shell and reading one package name per output line.
type ShellProbe struct {
	shell []string
	query string
}

var _ InstalledProbe = (*ShellProbe)(nil)

// NewShellProbe creates a probe. An empty query uses DefaultInstalledQuery.
func NewShellProbe(shell []string, query string) *ShellProbe {
	if query == "" {
		query = DefaultInstalledQuery
	}
	return &ShellProbe{shell: shell, query: query}
}

// Installed runs the query and returns the non-empty output lines.
func (p *ShellProbe) Installed(ctx context.Context) ([]string, error) {
	res, err := executil.RunScript(ctx, p.shell, p.query)
	if err != nil {
		return nil, fmt.Errorf("installed query: %w", err)
	}
	if !res.OK() {
		msg := res.Stderr
		if msg == "" {
			msg = fmt.Sprintf("exit code %d", res.ExitCode)
		}
		return nil, fmt.Errorf("installed query: %s", msg)
	}

	var names []string
	sc := bufio.NewScanner(strings.NewReader(res.Stdout))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names, sc.Err()
}
