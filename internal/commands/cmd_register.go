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
	"github.com/foodverse/foodverse/pkg/iojson"
)

type RegisterCmd struct {
	flags *Flags
	app   *foodverse.App

	reg    auth.Registration
	role   string
	reader iojson.FileReader[auth.Registration]
}

// NewRegisterCmd creates a new register command.
func NewRegisterCmd(flags *Flags, app *foodverse.App) *RegisterCmd {
	return &RegisterCmd{flags: flags, app: app}
}

// Register adds the register command to the application.
func (cmd *RegisterCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "register",
		Usage:     "Create an account and sign in",
		UsageText: "foodverse register [options]",
		Description: `Creates an account and stores the resulting session.

The account can be given as flags, as a JSON payload with -f (or piped on stdin),
or entered interactively when stdin is a terminal.

Examples:
  foodverse register --name Dana --email dana@example.com --password hunter22
  echo '{"name":"Dana","email":"dana@example.com","password":"hunter22"}' | foodverse register`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "display name", Destination: &cmd.reg.Name},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "account email", Destination: &cmd.reg.Email},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "account password (min 6 characters)",
				Sources:     cli.EnvVars("FOODVERSE_PASSWORD"),
				Destination: &cmd.reg.Password,
			},
			&cli.StringFlag{Name: "phone", Usage: "phone number", Destination: &cmd.reg.Phone},
			&cli.StringFlag{Name: "address", Usage: "street address", Destination: &cmd.reg.Address},
			&cli.StringFlag{
				Name:        "role",
				Usage:       "account type (consumer, business)",
				Value:       string(auth.RoleConsumer),
				Destination: &cmd.role,
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RegisterCmd) run(ctx context.Context, _ *cli.Command) error {
	reg, err := cmd.collect()
	if err != nil {
		return err
	}

	if err := validate.Registration(reg); err != nil {
		return err
	}

	if err := cmd.app.Auth.Register(ctx, reg); err != nil {
		cmd.app.Center.Add(notify.Notification{
			Category: notify.CategoryError,
			Title:    "Registration Failed",
			Message:  err.Error(),
		})
		return cli.Exit("", 1)
	}

	cmd.app.Center.Add(notify.Notification{
		Category: notify.CategorySuccess,
		Title:    "Account created",
		Message:  fmt.Sprintf("Signed in as %s.", reg.Name),
	})
	return nil
}

func (cmd *RegisterCmd) collect() (auth.Registration, error) {
	reg := cmd.reg
	reg.Role = auth.Role(cmd.role)

	complete := reg.Name != "" && reg.Email != "" && reg.Password != ""
	if complete {
		return reg, nil
	}

	// Piped JSON or -f wins over prompting.
	if cmd.reader.Provided() {
		in, err := cmd.reader.Read()
		if err != nil {
			return reg, err
		}
		if in.Role == "" {
			in.Role = auth.RoleConsumer
		}
		return in, nil
	}

	if !isInteractive() {
		return reg, errors.New("--name, --email and --password are required when stdin is not a terminal")
	}

	return reg, promptRegistration(&reg)
}

func promptRegistration(reg *auth.Registration) error {
	role := string(reg.Role)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&reg.Name).Validate(validate.Required("name")),
			huh.NewInput().Title("Email").Value(&reg.Email).Validate(validate.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&reg.Password).
				Validate(validate.NewPassword),
		).Title("Create a FoodVerse account"),
		huh.NewGroup(
			huh.NewInput().Title("Phone").Value(&reg.Phone),
			huh.NewInput().Title("Address").Value(&reg.Address),
			huh.NewSelect[string]().
				Title("Account type").
				Options(
					huh.NewOption("Consumer", string(auth.RoleConsumer)),
					huh.NewOption("Business", string(auth.RoleBusiness)),
				).
				Value(&role),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cli.Exit("", 1)
		}
		return fmt.Errorf("prompt: %w", err)
	}

	reg.Role = auth.Role(role)
	return nil
}
