package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/tweaks"
)

const (
	rootUsage       = "Select and apply system tweaks from a catalog"
	rootUsageText   = "tweakctl [global options] command [command options]"
	rootDescription = `tweakctl loads a catalog of system tweaks grouped by category, keeps a
persistent selection of them, and applies the selection as one batch with
per-item progress. Reversible items can be rolled back one at a time.

Run 'tweakctl items <category>' to browse the catalog.
Run 'tweakctl select <id>...' to build a selection, then 'tweakctl apply'.`
)

// NewRoot builds the root command with its global flags bound to flags.
// Hooks and the version are left to the caller.
func NewRoot(flags *Flags) *cli.Command {
	return &cli.Command{
		Name:        "tweakctl",
		Usage:       rootUsage,
		UsageText:   rootUsageText,
		Description: rootDescription,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TWEAKCTL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tweakctl.log)",
				Sources:     cli.EnvVars("TWEAKCTL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TWEAKCTL_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TWEAKCTL_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "catalog-dir",
				Usage:       "path to catalog directory (defaults to <data-dir>/catalog)",
				Sources:     cli.EnvVars("TWEAKCTL_CATALOG_DIR"),
				Destination: &flags.CatalogDir,
			},
		},
	}
}

// RegisterAll adds every subcommand to root.
func RegisterAll(root *cli.Command, flags *Flags, app *tweaks.App) *cli.Command {
	root = NewItemsCmd(flags, app).Register(root)
	root = NewPresetsCmd(flags, app).Register(root)
	root = NewSelectCmd(flags, app).Register(root)
	root = NewStatusCmd(flags, app).Register(root)
	root = NewApplyCmd(flags, app).Register(root)
	root = NewRollbackCmd(flags, app).Register(root)
	root = NewHistoryCmd(flags, app).Register(root)
	root = NewDoctorCmd(flags, app).Register(root)
	root = NewInfoCmd(flags, app).Register(root)
	return root
}
