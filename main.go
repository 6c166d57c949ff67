package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/commands"
	"github.com/foodverse/foodverse/internal/core/config"
	"github.com/foodverse/foodverse/internal/core/logging"
	"github.com/foodverse/foodverse/internal/core/styles"
	"github.com/foodverse/foodverse/internal/foodverse"
	"github.com/foodverse/foodverse/internal/printer"
	"github.com/foodverse/foodverse/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
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

func main() {
	ctx := context.Background()

	var (
		logCloser    func()
		stopEcho     func()
		opened       bool
		foodverseApp = &foodverse.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "foodverse",
		Usage:     "Rescue surplus food from the terminal",
		UsageText: "foodverse [global options] command [command options]",
		Description: `FoodVerse connects people with stores selling surplus food bags.

Run 'foodverse' with no arguments to open the dashboard.
Run 'foodverse login' to sign in without opening it.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("FOODVERSE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/foodverse.log)",
				Sources:     cli.EnvVars("FOODVERSE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("FOODVERSE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("FOODVERSE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the dashboard owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "foodverse.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			sub := c.Args().First()
			ctx = logging.WithCommand(ctx, sub)

			p := printer.New(os.Stderr)
			ctx = printer.NewContext(ctx, p)

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				// config validate reports the problem itself.
				if sub == "config" {
					return ctx, nil
				}
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			a, err := foodverse.Open(cfg)
			if err != nil {
				return ctx, err
			}
			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*foodverseApp = *a
			opened = true

			// Subcommands print notifications as they are added; the
			// dashboard draws them as toasts instead.
			if c.Args().Present() {
				stopEcho = commands.EchoNotifications(p, foodverseApp.Center)
			}

			if err := foodverseApp.Restore(ctx); err != nil {
				log.Warn().Ctx(ctx).Err(err).Msg("could not restore session")
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if stopEcho != nil {
				stopEcho()
			}

			if opened {
				if err := foodverseApp.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close app")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, foodverseApp)

	app = commands.NewLoginCmd(flags, foodverseApp).Register(app)
	app = commands.NewRegisterCmd(flags, foodverseApp).Register(app)
	app = commands.NewLogoutCmd(flags, foodverseApp).Register(app)
	app = commands.NewWhoamiCmd(flags, foodverseApp).Register(app)
	app = commands.NewNotifyCmd(flags, foodverseApp).Register(app)
	app = commands.NewOrdersCmd(flags, foodverseApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'foodverse --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
