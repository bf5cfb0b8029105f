package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type ItemsCmd struct {
	flags *Flags
	app   *tweaks.App

	// flags
	jsonOutput bool
}

// NewItemsCmd creates a new items command
func NewItemsCmd(flags *Flags, app *tweaks.App) *ItemsCmd {
	return &ItemsCmd{flags: flags, app: app}
}

// Register adds the items command to the application
func (cmd *ItemsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "items",
		Usage:     "List the items of a category",
		UsageText: "tweakctl items <category> [--json]",
		Description: `Lists every item in a category with its selection mark, safety flag,
and whether it can be rolled back. Apps also show their install status.

Categories: apps, privacy, services, registry, updates, system.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

type itemJSON struct {
	item.Item
	Selected bool `json:"selected"`
}

func (cmd *ItemsCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one category argument")
	}

	category, err := item.ParseCategory(c.Args().First())
	if err != nil {
		return err
	}

	items, err := cmd.app.Tweaks.Items(ctx, category)
	if err != nil {
		return fmt.Errorf("load %s: %w", category, err)
	}

	state := cmd.app.Tweaks.State()
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, it := range items {
			if err := iojson.WriteLine(out, itemJSON{Item: it, Selected: state.Selected.Has(it.ID)}); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	if len(items) == 0 {
		printer.Ctx(ctx).Infof("No items in %s", category)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tID\tNAME\tSAFE\tROLLBACK\tINSTALLED")
	for _, it := range items {
		mark := styles.IconUnselected
		if state.Selected.Has(it.ID) {
			mark = styles.IconSelected
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, it.ID, it.Name, yesNo(it.Safe), yesNo(it.Reversible()), installed(it.IsInstalled))
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func installed(b *bool) string {
	if b == nil {
		return "-"
	}
	return yesNo(*b)
}
