package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/execution"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
)

type RollbackCmd struct {
	flags *Flags
	app   *tweaks.App

	yes bool
}

// NewRollbackCmd creates a new rollback command.
func NewRollbackCmd(flags *Flags, app *tweaks.App) *RollbackCmd {
	return &RollbackCmd{flags: flags, app: app}
}

// Register adds the rollback command to the application.
func (cmd *RollbackCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rollback",
		Usage:     "Run the inverse action of an item",
		UsageText: "tweakctl rollback <id> [--yes]",
		Description: `Runs the rollback command of a single catalog item. Items without a
rollback command cannot be reverted. The selection and history are left
unchanged.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RollbackCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one item id")
	}
	id := c.Args().First()
	p := printer.Ctx(ctx)

	it, err := cmd.app.Tweaks.Find(ctx, id)
	if err != nil {
		return err
	}
	if !it.Reversible() {
		return fmt.Errorf("%s: %w", it.Name, execution.ErrNoRollback)
	}

	ok, err := confirm(fmt.Sprintf("Roll back %q?", it.Name), it.Description, cmd.yes)
	if err != nil {
		return err
	}
	if !ok {
		p.Infof("Cancelled")
		return nil
	}

	_, err = cmd.app.Tweaks.Rollback(ctx, id)

	var actionErr *execution.ActionError
	var transportErr *execution.TransportError
	switch {
	case err == nil:
		p.Successf("Rolled back %s", it.Name)
		return nil
	case errors.As(err, &actionErr):
		return fmt.Errorf("roll back %s: %w", it.Name, actionErr)
	case errors.As(err, &transportErr):
		return fmt.Errorf("run rollback for %s: %w", it.Name, transportErr)
	default:
		return err
	}
}
