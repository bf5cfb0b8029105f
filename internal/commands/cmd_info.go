package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/runner"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type InfoCmd struct {
	flags *Flags
	app   *tweaks.App

	jsonOutput bool
}

// NewInfoCmd creates a new info command.
func NewInfoCmd(flags *Flags, app *tweaks.App) *InfoCmd {
	return &InfoCmd{flags: flags, app: app}
}

// Register adds the info command to the application.
func (cmd *InfoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "info",
		Usage:     "Show the Windows version, build number and user",
		UsageText: "tweakctl info [--json]",
		Description: `Queries the host through the configured runner shell. Fields whose
query fails are shown as Unknown. Without a shell the command fails with
"This application only runs on Windows".`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InfoCmd) run(ctx context.Context, c *cli.Command) error {
	rc := cmd.flags.Config.Runner
	info, err := runner.NewShell(rc.Shell, rc.Timeout).SystemInfo(ctx, runner.DefaultInfoQueries)
	if err != nil {
		if cmd.jsonOutput {
			_ = iojson.WriteError(err.Error(), nil)
		}
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, info)
	}

	p := printer.Ctx(ctx)
	p.Header("System")
	p.Printf("  Windows version  %s", info.WindowsVersion)
	p.Printf("  Build number     %s", info.BuildNumber)
	p.Printf("  User             %s", info.Username)
	return nil
}
