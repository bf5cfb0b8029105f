package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tweakctl/internal/commands"
	"github.com/colonyops/tweakctl/internal/core/catalog"
	"github.com/colonyops/tweakctl/internal/core/config"
	"github.com/colonyops/tweakctl/internal/core/eventbus"
	"github.com/colonyops/tweakctl/internal/core/kv"
	"github.com/colonyops/tweakctl/internal/core/logging"
	"github.com/colonyops/tweakctl/internal/core/selection"
	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/internal/printer"
	"github.com/colonyops/tweakctl/internal/runner"
	"github.com/colonyops/tweakctl/internal/source/datadir"
	"github.com/colonyops/tweakctl/internal/store/jsonfile"
	"github.com/colonyops/tweakctl/internal/store/sqlite"
	"github.com/colonyops/tweakctl/internal/tweaks"
	"github.com/colonyops/tweakctl/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back to
	// runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// busBuffer bounds queued events before publishers start dropping.
const busBuffer = 256

func openStore(cfg *config.Config) (kv.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return sqlite.NewKVStore(db), nil
	default:
		return jsonfile.NewKVStore(cfg.DataDir), nil
	}
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		busCancel context.CancelFunc
		tweakApp  = &tweaks.App{}
	)

	flags := &commands.Flags{}

	app := commands.NewRoot(flags)
	app.Version = build()
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		if flags.CatalogDir != "" {
			cfg.CatalogDir = flags.CatalogDir
		}
		flags.Config = cfg

		logFile := flags.LogFile
		if logFile == "" {
			logFile = cfg.LogFile()
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		// Validation ensures the theme name is known
		palette, _ := styles.GetPalette(cfg.Theme)
		styles.SetTheme(palette)

		store, err := openStore(cfg)
		if err != nil {
			return ctx, err
		}

		sel := selection.New(selection.WithKV(store))
		if err := sel.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to load saved selection, starting empty")
		}

		var srcOpts []datadir.Option
		if len(cfg.Runner.Shell) > 0 {
			srcOpts = append(srcOpts, datadir.WithProbe(datadir.NewShellProbe(cfg.Runner.Shell, cfg.Apps.InstalledQuery)))
		}
		source := datadir.New(cfg.CatalogDir, srcOpts...)

		var catOpts []catalog.Option
		if cfg.Apps.RemoveTemplate != "" {
			catOpts = append(catOpts, catalog.WithRemoveTemplate(cfg.Apps.RemoveTemplate))
		}
		cat := catalog.New(source, catOpts...)

		bus := eventbus.New(busBuffer)
		eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

		busCtx, cancel := context.WithCancel(context.Background())
		busCancel = cancel
		go bus.Start(busCtx)

		svc := tweaks.NewService(cat, sel, runner.NewShell(cfg.Runner.Shell, cfg.Runner.Timeout), bus)

		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*tweakApp = *tweaks.NewApp(svc, cat, bus, cfg, store)

		ctx = logger.WithContext(ctx)
		ctx = printer.NewContext(ctx, printer.New(c.Root().Writer, c.Root().ErrWriter))
		return ctx, nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		if busCancel != nil {
			busCancel()
		}

		if err := tweakApp.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
			return err
		}

		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	app = commands.RegisterAll(app, flags, tweakApp)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
