package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/doctor"
	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type DoctorCmd struct {
	flags *Flags
	app   *tweaks.App

	format string
}

// NewDoctorCmd creates a new doctor command.
func NewDoctorCmd(flags *Flags, app *tweaks.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

// Register adds the doctor command to the application.
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "doctor",
		Usage:     "Check the shell, catalog, and storage setup",
		UsageText: "tweakctl doctor [--format text|json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text or json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	checks := []doctor.Check{
		doctor.NewShellCheck(cfg.Runner.Shell),
		doctor.NewCatalogCheck(cmd.app.Catalog),
		doctor.NewStorageCheck(cfg.Storage.Backend, cmd.app.KV),
	}

	results := doctor.RunAll(ctx, checks)
	_, _, failed := doctor.Summary(results)

	switch cmd.format {
	case "json":
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, results); err != nil {
			return err
		}
	case "text":
		cmd.printText(ctx, results)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func (cmd *DoctorCmd) printText(ctx context.Context, results []doctor.Result) {
	p := printer.Ctx(ctx)
	for _, r := range results {
		p.Header(r.Name)
		for _, it := range r.Items {
			icon := statusIcon(it.Status)
			if it.Detail != "" {
				p.Printf("  %s %s %s", icon, it.Label, styles.MutedStyle.Render("("+it.Detail+")"))
			} else {
				p.Printf("  %s %s", icon, it.Label)
			}
		}
		p.Printf("")
	}

	passed, warned, failed := doctor.Summary(results)
	p.Printf("%d passed, %d warnings, %d failed", passed, warned, failed)
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusPass:
		return styles.SuccessStyle.Render(styles.IconSuccess)
	case doctor.StatusWarn:
		return styles.WarningStyle.Render(styles.IconWarning)
	default:
		return styles.ErrorStyle.Render(styles.IconFailure)
	}
}
