package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/history"
	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *tweaks.App

	jsonOutput bool
	limit      int
}

// NewHistoryCmd creates a new history command.
func NewHistoryCmd(flags *Flags, app *tweaks.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List applied batches, newest first",
		UsageText: "tweakctl history [--limit N] [--json]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of entries to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
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

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	entries := cmd.app.Tweaks.History(cmd.limit)

	if cmd.jsonOutput {
		if entries == nil {
			entries = []history.Entry{}
		}
		return iojson.WriteWith(c.Root().Writer, os.Stderr, entries)
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No history yet")
		return nil
	}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render("ID")+"\t"+
		styles.HeaderStyle.Render("TYPE")+"\t"+
		styles.HeaderStyle.Render("WHEN")+"\t"+
		styles.HeaderStyle.Render("ITEMS"))

	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			styles.IDStyle.Render(shortID(e.ID)),
			e.Type,
			styles.MutedStyle.Render(humanize.Time(e.Timestamp)),
			strings.Join(e.Items, ", "),
		)
	}

	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
