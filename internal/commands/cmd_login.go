package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/core/styles"
	"github.com/foodverse/foodverse/internal/core/validate"
	"github.com/foodverse/foodverse/internal/foodverse"
)

type LoginCmd struct {
	flags *Flags
	app   *foodverse.App

	email    string
	password string
}

// NewLoginCmd creates a new login command.
func NewLoginCmd(flags *Flags, app *foodverse.App) *LoginCmd {
	return &LoginCmd{flags: flags, app: app}
}

// Register adds the login command to the application.
func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "login",
		Usage:     "Sign in and store the session",
		UsageText: "foodverse login [--email <email>] [--password <password>]",
		Description: `Signs in against the FoodVerse API and stores the session in the data directory.

Missing credentials are prompted for when stdin is a terminal.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "account email",
				Destination: &cmd.email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "account password",
				Sources:     cli.EnvVars("FOODVERSE_PASSWORD"),
				Destination: &cmd.password,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LoginCmd) run(ctx context.Context, _ *cli.Command) error {
	if cmd.email == "" || cmd.password == "" {
		if !isInteractive() {
			return errors.New("--email and --password are required when stdin is not a terminal")
		}
		if err := cmd.prompt(); err != nil {
			return err
		}
	}

	if err := cmd.app.Auth.Login(ctx, cmd.email, cmd.password); err != nil {
		cmd.app.Center.Add(notify.Notification{
			Category: notify.CategoryError,
			Title:    "Login Failed",
			Message:  err.Error(),
		})
		return cli.Exit("", 1)
	}

	name := cmd.email
	if u, ok := cmd.app.Auth.Current(); ok && u.Name != "" {
		name = u.Name
	}
	cmd.app.Center.Add(notify.Notification{
		Category: notify.CategorySuccess,
		Title:    "Welcome back!",
		Message:  fmt.Sprintf("Signed in as %s.", name),
	})
	return nil
}

func (cmd *LoginCmd) prompt() error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&cmd.email).
				Validate(validate.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&cmd.password).
				Validate(validate.Password),
		).Title("Sign in to FoodVerse"),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cli.Exit("", 1)
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// requireUser returns the signed in user or exits with a hint.
func requireUser(svc *auth.Service) (auth.User, error) {
	u, ok := svc.Current()
	if !ok {
		return auth.User{}, fmt.Errorf("%w: run 'foodverse login' first", auth.ErrNotAuthenticated)
	}
	return u, nil
}
