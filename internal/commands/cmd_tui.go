package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/logging"
	"github.com/foodverse/foodverse/internal/foodverse"
	"github.com/foodverse/foodverse/internal/tui"
	"github.com/foodverse/foodverse/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *foodverse.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *foodverse.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("FOODVERSE_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	// Expired KV rows are swept for as long as the dashboard is open.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go foodverse.Sweep(sweepCtx, cmd.app.KV, foodverse.SweepInterval)

	cfg := cmd.app.Config
	m := tui.New(tui.Options{
		Auth:      cmd.app.Auth,
		API:       cmd.app.API,
		Center:    cmd.app.Center,
		Dashboard: cfg.Dashboard,
		MaxToasts: cfg.TUI.MaxToasts,
		Logger:    logging.Component("tui"),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
