package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type PresetsCmd struct {
	flags *Flags
	app   *tweaks.App

	jsonOutput bool
}

// NewPresetsCmd creates the presets and preset commands.
func NewPresetsCmd(flags *Flags, app *tweaks.App) *PresetsCmd {
	return &PresetsCmd{flags: flags, app: app}
}

// Register adds the presets and preset commands to the application.
func (cmd *PresetsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "presets",
			Usage:     "List presets",
			UsageText: "tweakctl presets [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output as JSON lines",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.runList,
		},
		&cli.Command{
			Name:      "preset",
			Usage:     "Replace the selection with a preset",
			UsageText: "tweakctl preset <id>",
			Description: `Selects every item of the preset that exists in the current catalog
and marks the preset active. Preset ids missing from the catalog are skipped.`,
			Action: cmd.runApply,
		},
	)

	return app
}

func (cmd *PresetsCmd) runList(ctx context.Context, c *cli.Command) error {
	presets, err := cmd.app.Tweaks.Presets(ctx)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, p := range presets {
			if err := iojson.WriteLine(out, p); err != nil {
				return fmt.Errorf("encode preset: %w", err)
			}
		}
		return nil
	}

	active := cmd.app.Tweaks.State().CurrentPreset
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tID\tNAME\tITEMS\tDESCRIPTION")
	for _, p := range presets {
		mark := " "
		if p.ID == active {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", mark, p.ID, p.Name, len(p.Items), p.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(presets) == 0 {
		printer.Ctx(ctx).Infof("No presets defined")
	}
	return nil
}

func (cmd *PresetsCmd) runApply(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one preset id")
	}

	p, err := cmd.app.Tweaks.ApplyPreset(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("apply preset: %w", err)
	}

	st := cmd.app.Tweaks.State()
	printer.Ctx(ctx).Successf("Preset %s selected %d of %d item(s)", p.Name, st.Count(), len(p.Items))
	return nil
}
