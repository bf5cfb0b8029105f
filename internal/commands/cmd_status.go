package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type StatusCmd struct {
	flags *Flags
	app   *tweaks.App

	jsonOutput bool
}

// NewStatusCmd creates a new status command.
func NewStatusCmd(flags *Flags, app *tweaks.App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

// Register adds the status command to the application.
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "status",
		Usage:     "Show the current selection",
		UsageText: "tweakctl status [--json]",
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

type statusJSON struct {
	Selected      []string `json:"selected"`
	Count         int      `json:"count"`
	CurrentPreset string   `json:"currentPreset,omitempty"`
	HistoryCount  int      `json:"historyCount"`
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	st := cmd.app.Tweaks.State()

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, statusJSON{
			Selected:      st.Selected.Sorted(),
			Count:         st.Count(),
			CurrentPreset: st.CurrentPreset,
			HistoryCount:  len(st.History),
		})
	}

	p := printer.Ctx(ctx)
	preset := st.CurrentPreset
	if preset == "" {
		preset = "none"
	}

	p.Header("Selection")
	p.Printf("  %s %d", styles.MutedStyle.Render("items: "), st.Count())
	p.Printf("  %s %s", styles.MutedStyle.Render("preset:"), preset)
	p.Printf("  %s %d", styles.MutedStyle.Render("history:"), len(st.History))

	if st.Count() == 0 {
		return nil
	}

	p.Printf("")
	for _, id := range st.Selected.Sorted() {
		p.Printf("  %s %s", styles.IconSelected, styles.IDStyle.Render(id))
	}
	return nil
}
