package runner

import (
	"context"
	"errors"
	"strings"

	"github.com/colonyops/tweakctl/pkg/executil"
)

// ErrUnsupportedPlatform is returned by SystemInfo when no shell is configured.
var ErrUnsupportedPlatform = errors.New(UnsupportedPlatform)

// Unknown stands in for any field whose query failed.
const Unknown = "Unknown"

// SystemInfo describes the host the actions run on.
type SystemInfo struct {
	WindowsVersion string `json:"windowsVersion"`
	BuildNumber    string `json:"buildNumber"`
	Username       string `json:"username"`
}

// InfoQueries are the scripts run to fill in a SystemInfo, one per field.
type InfoQueries struct {
	Version  string
	Build    string
	Username string
}

// DefaultInfoQueries are PowerShell expressions for a Windows host.
var DefaultInfoQueries = InfoQueries{
	Version:  "[System.Environment]::OSVersion.VersionString",
	Build:    "(Get-CimInstance Win32_OperatingSystem).BuildNumber",
	Username: "$env:USERNAME",
}

// SystemInfo runs each query through the shell and collects the trimmed
// stdout. A query that cannot start or exits non-zero yields Unknown for its
// field. Only cancellation of ctx is returned as an error.
func (s *Shell) SystemInfo(ctx context.Context, q InfoQueries) (SystemInfo, error) {
	if len(s.argv) == 0 {
		return SystemInfo{}, ErrUnsupportedPlatform
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var info SystemInfo
	for _, f := range []struct {
		dst    *string
		script string
	}{
		{&info.WindowsVersion, q.Version},
		{&info.BuildNumber, q.Build},
		{&info.Username, q.Username},
	} {
		v, err := s.query(ctx, f.script)
		if err != nil {
			return SystemInfo{}, err
		}
		*f.dst = v
	}
	return info, nil
}

func (s *Shell) query(ctx context.Context, script string) (string, error) {
	if script == "" {
		return Unknown, nil
	}

	res, err := executil.RunScript(ctx, s.argv, script)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil || !res.OK() {
		s.logger.Debug().Err(err).Int("exit_code", res.ExitCode).Str("query", script).Msg("system query failed")
		return Unknown, nil
	}

	v := strings.TrimSpace(res.Stdout)
	if v == "" {
		return Unknown, nil
	}
	return v, nil
}
