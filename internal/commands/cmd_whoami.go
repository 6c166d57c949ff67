package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/foodverse"
	"github.com/foodverse/foodverse/internal/printer"
	"github.com/foodverse/foodverse/pkg/iojson"
)

type WhoamiCmd struct {
	flags  *Flags
	app    *foodverse.App
	format string
}

// NewWhoamiCmd creates a new whoami command.
func NewWhoamiCmd(flags *Flags, app *foodverse.App) *WhoamiCmd {
	return &WhoamiCmd{flags: flags, app: app}
}

// Register adds the whoami command to the application.
func (cmd *WhoamiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed in user",
		Flags: []cli.Flag{
			formatFlag(&cmd.format),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WhoamiCmd) run(ctx context.Context, c *cli.Command) error {
	u, err := requireUser(cmd.app.Auth)
	if err != nil {
		return err
	}

	if cmd.format == formatJSON {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, u)
	}

	p := printer.Ctx(ctx)
	p.Section(u.Name)
	p.KeyValue("id", strconv.FormatInt(u.ID, 10))
	p.KeyValue("email", u.Email)
	p.KeyValue("role", string(u.Role))
	if u.Phone != "" {
		p.KeyValue("phone", u.Phone)
	}
	if u.Address != "" {
		p.KeyValue("address", u.Address)
	}
	if sess, ok := cmd.app.Auth.Session(); ok && !sess.ExpiresAt.IsZero() {
		p.KeyValue("expires", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	if u.Role == auth.RoleConsumer {
		if status := cmd.sellerStatus(ctx); status != "" {
			p.KeyValue("seller", status)
		}
	}
	p.KeyValue("api", cmd.app.API.BaseURL())
	return nil
}

// sellerStatus describes the user's seller application. Lookup failures only
// hide the line.
func (cmd *WhoamiCmd) sellerStatus(ctx context.Context) string {
	req, err := cmd.app.API.MySellerRequest(ctx)
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return "not applied"
	case err != nil:
		log.Debug().Err(err).Msg("seller request lookup failed")
		return ""
	}
	return string(req.Status) + " (applied " + req.CreatedAt.Local().Format("2006-01-02") + ")"
}
