package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/core/execution"
	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/iojson"
)

type ApplyCmd struct {
	flags *Flags
	app   *tweaks.App

	yes        bool
	jsonOutput bool
	clear      bool
}

// NewApplyCmd creates a new apply command.
func NewApplyCmd(flags *Flags, app *tweaks.App) *ApplyCmd {
	return &ApplyCmd{flags: flags, app: app}
}

// Register adds the apply command to the application.
func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "apply",
		Usage:     "Run every selected item",
		UsageText: "tweakctl apply [--yes] [--json] [--clear]",
		Description: `Runs the selected items one at a time in catalog order and reports
progress as each item starts and finishes. A failed item does not stop the
batch. The batch is recorded in the history log.

Selected ids that are no longer in the catalog are skipped.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "stream progress as JSON lines and print the result as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "clear the selection when every item succeeds (overrides apply.clear_selection)",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

type applyJSON struct {
	BatchID string   `json:"batchId"`
	Items   []string `json:"items"`
	Dropped []string `json:"dropped,omitempty"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

func (cmd *ApplyCmd) run(ctx context.Context, c *cli.Command) error {
	log := zerolog.Ctx(ctx)
	p := printer.Ctx(ctx)
	svc := cmd.app.Tweaks

	items, dropped, err := svc.SelectedItems(ctx)
	if err != nil {
		return cmd.fail(fmt.Errorf("resolve selection: %w", err))
	}
	if len(items) == 0 {
		if !cmd.jsonOutput {
			p.Infof("Nothing selected")
		}
		return nil
	}

	if !cmd.jsonOutput {
		for _, id := range dropped {
			p.Warnf("%s is no longer in the catalog and will be skipped", id)
		}
	}

	ok, err := confirm(
		fmt.Sprintf("Apply %d item(s)?", len(items)),
		describe(items),
		cmd.yes,
	)
	if err != nil {
		return cmd.fail(err)
	}
	if !ok {
		p.Infof("Cancelled")
		return nil
	}

	out := c.Root().Writer
	opts := tweaks.ApplyOptions{
		ClearOnSuccess: cmd.clear || cmd.flags.Config.Apply.ClearSelection,
	}

	observer := progressPrinter(out, len(items))
	if cmd.jsonOutput {
		observer = progressJSON(out)
	}

	report, err := svc.ApplyItems(ctx, items, opts, observer)
	if err != nil {
		return cmd.fail(err)
	}
	report.Dropped = dropped

	log.Info().
		Str("batch_id", report.BatchID).
		Bool("success", report.Result.Success).
		Msg("apply finished")

	if cmd.jsonOutput {
		if err := iojson.WriteWith(out, os.Stderr, applyJSON{
			BatchID: report.BatchID,
			Items:   item.IDs(report.Items),
			Dropped: report.Dropped,
			Success: report.Result.Success,
			Errors:  report.Result.Errors,
		}); err != nil {
			return err
		}
		if !report.Result.Success {
			return batchFailed(report)
		}
		return nil
	}

	p.Printf("")
	if report.Result.Success {
		p.Successf("Applied %d item(s)", len(report.Items))
		return nil
	}

	p.Errorf("%d of %d item(s) failed", len(report.Result.Errors), len(report.Items))
	for _, e := range report.Result.Errors {
		p.Printf("  %s", e)
	}
	return batchFailed(report)
}

// batchFailed is returned so the process exits non-zero after the After
// hook has saved and closed the store.
func batchFailed(report tweaks.ApplyReport) error {
	return fmt.Errorf("batch %s: %d of %d item(s) failed", report.BatchID, len(report.Result.Errors), len(report.Items))
}

func (cmd *ApplyCmd) fail(err error) error {
	if cmd.jsonOutput {
		_ = iojson.WriteError(err.Error(), nil)
	}
	return err
}

func describe(items []item.Item) string {
	var b strings.Builder
	unsafe := 0
	for _, it := range items {
		if !it.Safe {
			unsafe++
		}
	}
	if unsafe > 0 {
		fmt.Fprintf(&b, "%d item(s) are not marked safe. ", unsafe)
	}
	irreversible := 0
	for _, it := range items {
		if !it.Reversible() {
			irreversible++
		}
	}
	if irreversible > 0 {
		fmt.Fprintf(&b, "%d item(s) cannot be rolled back.", irreversible)
	}
	return strings.TrimSpace(b.String())
}

// progressPrinter renders the latest transition of every snapshot against a
// fixed batch size.
func progressPrinter(w io.Writer, total int) execution.Observer {
	return func(s execution.Snapshot) {
		last, ok := s.Last()
		if !ok {
			return
		}
		done, failed, _ := s.Counts()
		counter := styles.MutedStyle.Render(fmt.Sprintf("[%d/%d]", done+failed, total))

		switch last.Status {
		case execution.StatusRunning:
			_, _ = fmt.Fprintf(w, "%s %s %s\n", styles.InfoStyle.Render(styles.IconRunning), counter, last.Name)
		case execution.StatusCompleted:
			_, _ = fmt.Fprintf(w, "%s %s %s\n", styles.SuccessStyle.Render(styles.IconSuccess), counter, last.Name)
		case execution.StatusFailed:
			_, _ = fmt.Fprintf(w, "%s %s %s: %s\n", styles.ErrorStyle.Render(styles.IconFailure), counter, last.Name, last.Error)
		}
	}
}

// progressJSON writes the latest transition of every snapshot as a JSON line.
func progressJSON(w io.Writer) execution.Observer {
	return func(s execution.Snapshot) {
		if last, ok := s.Last(); ok {
			_ = iojson.WriteLine(w, last)
		}
	}
}
