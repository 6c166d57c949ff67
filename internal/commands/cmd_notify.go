package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/foodverse"
	"github.com/foodverse/foodverse/internal/printer"
	"github.com/foodverse/foodverse/pkg/iojson"
)

type NotifyCmd struct {
	flags *Flags
	app   *foodverse.App

	format string
	limit  int

	// send flags
	category string
	title    string
	duration time.Duration
}

// NewNotifyCmd creates a new notify command.
func NewNotifyCmd(flags *Flags, app *foodverse.App) *NotifyCmd {
	return &NotifyCmd{flags: flags, app: app}
}

// Register adds the notify command to the application.
func (cmd *NotifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "notify",
		Usage: "Inspect and send notifications",
		Description: `Every notification shown by foodverse is kept in the local history
(unless notifications.history is false in the config).`,
		Commands: []*cli.Command{
			cmd.historyCmd(),
			cmd.clearCmd(),
			cmd.sendCmd(),
		},
	})

	return app
}

func (cmd *NotifyCmd) historyCmd() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List past notifications, newest first",
		UsageText: "foodverse notify history [--limit N] [--format json]",
		Flags: []cli.Flag{
			formatFlag(&cmd.format),
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show at most N notifications (0 shows all)",
				Destination: &cmd.limit,
				Validator: func(n int) error {
					if n < 0 {
						return errors.New("--limit must not be negative")
					}
					return nil
				},
			},
		},
		Action: cmd.runHistory,
	}
}

func (cmd *NotifyCmd) clearCmd() *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Delete the notification history",
		Action: cmd.runClear,
	}
}

func (cmd *NotifyCmd) sendCmd() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Show a notification and record it in the history",
		UsageText: "foodverse notify send [--category info] [--title <title>] <message>",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"k"},
				Usage:       "success, error, info or warning",
				Value:       string(notify.CategoryInfo),
				Destination: &cmd.category,
				Validator: func(s string) error {
					if !notify.Category(s).IsValid() {
						return fmt.Errorf("unknown category %q", s)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "optional heading",
				Destination: &cmd.title,
			},
			&cli.DurationFlag{
				Name:        "duration",
				Usage:       "how long the toast stays visible (defaults to notifications.default_duration)",
				Destination: &cmd.duration,
			},
		},
		Action: cmd.runSend,
	}
}

type notificationOutput struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Duration  int64     `json:"duration_ms"`
	CreatedAt time.Time `json:"created_at"`
}

func toOutput(ns []notify.Notification) []notificationOutput {
	out := make([]notificationOutput, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationOutput{
			ID:        n.ID,
			Category:  string(n.Category),
			Title:     n.Title,
			Message:   n.Message,
			Duration:  n.Duration.Milliseconds(),
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

var errHistoryDisabled = errors.New("notification history is disabled (notifications.history: false)")

func (cmd *NotifyCmd) runHistory(ctx context.Context, c *cli.Command) error {
	if cmd.app.History == nil {
		return errHistoryDisabled
	}

	items, err := cmd.app.Center.History(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if cmd.limit > 0 && len(items) > cmd.limit {
		items = items[:cmd.limit]
	}

	if cmd.format == formatJSON {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, toOutput(items))
	}

	p := printer.Ctx(ctx)
	if len(items) == 0 {
		p.Infof("No notifications yet")
		return nil
	}

	total, err := cmd.app.Center.HistoryCount(ctx)
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}
	if int64(len(items)) < total {
		p.Section(fmt.Sprintf("Notifications (%d of %d)", len(items), total))
	} else {
		p.Section(fmt.Sprintf("Notifications (%d)", total))
	}
	for _, n := range items {
		p.Printf("%s", n.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		p.Notify(n)
	}
	return nil
}

func (cmd *NotifyCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if cmd.app.History == nil {
		return errHistoryDisabled
	}

	if err := cmd.app.Center.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	printer.Ctx(ctx).Successf("Notification history cleared")
	return nil
}

func (cmd *NotifyCmd) runSend(_ context.Context, c *cli.Command) error {
	msg := strings.TrimSpace(c.Args().First())
	if msg == "" {
		return errors.New("a message is required: foodverse notify send <message>")
	}

	cmd.app.Center.Add(notify.Notification{
		Category: notify.Category(cmd.category),
		Title:    cmd.title,
		Message:  msg,
		Duration: cmd.duration,
	})
	return nil
}
