package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/printer"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func formatFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "format",
		Usage:       "output format (text, json)",
		Value:       formatText,
		Destination: dest,
		Validator: func(s string) error {
			if s != formatText && s != formatJSON {
				return fmt.Errorf("unsupported format %q", s)
			}
			return nil
		},
	}
}

// isInteractive is swapped in tests.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// EchoNotifications prints every notification added to center while a
// command runs. The dashboard renders toasts itself and must not use this.
func EchoNotifications(p *printer.Printer, center *notify.Center) (unsubscribe func()) {
	return center.Subscribe(func(ev notify.Event) {
		if ev.Type == notify.EventAdded {
			p.Notify(ev.Notification)
		}
	})
}
