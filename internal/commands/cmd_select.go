package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type SelectCmd struct {
	flags *Flags
	app   *tweaks.App
	fr    *iojson.FileReader[[]string]

	all  string
	none bool
}

// NewSelectCmd creates a new select command.
func NewSelectCmd(flags *Flags, app *tweaks.App) *SelectCmd {
	return &SelectCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[[]string]{},
	}
}

// Register adds the select command to the application.
func (cmd *SelectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "select",
		Usage:     "Toggle items in the selection",
		UsageText: "tweakctl select <id|glob>... | --all <category> | --none | --file <ids.json>",
		Description: `Toggles each id. Glob patterns such as 'privacy-*' toggle every
catalog id they match. Ids that are not in the catalog are kept in the
selection and skipped when applying.

--all replaces the selection with every item of a category.
--none clears the selection and the active preset.
--file toggles the ids of a JSON array read from a file, or stdin with '-'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "all",
				Usage:       "select every item of `CATEGORY`",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "none",
				Usage:       "clear the selection",
				Destination: &cmd.none,
			},
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SelectCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	svc := cmd.app.Tweaks

	switch {
	case cmd.none:
		if err := svc.ClearSelection(ctx); err != nil {
			return err
		}
		p.Successf("Selection cleared")
		return nil

	case cmd.all != "":
		category, err := item.ParseCategory(cmd.all)
		if err != nil {
			return err
		}
		n, err := svc.SelectCategory(ctx, category)
		if err != nil {
			return fmt.Errorf("select %s: %w", category, err)
		}
		p.Successf("Selected %d %s item(s)", n, category)
		return nil
	}

	patterns := c.Args().Slice()
	if cmd.fr.IsSet() {
		ids, err := cmd.fr.Read()
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		patterns = append(patterns, ids...)
	}
	if len(patterns) == 0 {
		return fmt.Errorf("nothing to select; pass ids, --all, --none, or --file")
	}

	toggled, err := svc.Toggle(ctx, patterns...)
	if err != nil {
		return err
	}

	st := svc.State()
	for _, id := range toggled {
		if st.Selected.Has(id) {
			p.Infof("selected %s", id)
		} else {
			p.Infof("deselected %s", id)
		}
	}
	p.Successf("%d item(s) selected", st.Count())
	return nil
}
