package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/foodverse"
)

type LogoutCmd struct {
	flags *Flags
	app   *foodverse.App
}

// NewLogoutCmd creates a new logout command.
func NewLogoutCmd(flags *Flags, app *foodverse.App) *LogoutCmd {
	return &LogoutCmd{flags: flags, app: app}
}

// Register adds the logout command to the application.
func (cmd *LogoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored session",
		Action: cmd.run,
	})

	return app
}

func (cmd *LogoutCmd) run(ctx context.Context, _ *cli.Command) error {
	if !cmd.app.Auth.IsAuthenticated() {
		cmd.app.Center.Add(notify.Notification{Category: notify.CategoryInfo, Message: "Not logged in"})
		return nil
	}

	if err := cmd.app.Auth.Logout(ctx); err != nil {
		return err
	}

	cmd.app.Center.Add(notify.Notification{Category: notify.CategoryInfo, Message: "Logged out"})
	return nil
}
