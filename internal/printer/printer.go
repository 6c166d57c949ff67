// Package printer writes styled status lines for CLI commands. A Printer is
// carried on the context so commands do not need to thread writers around.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to out.
type Printer struct {
	out io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Successf writes a line prefixed with the success icon.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.IconSuccess, styles.CurrentPalette.Success, fmt.Sprintf(format, args...))
}

// Infof writes a line prefixed with the info icon.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.IconInfo, styles.CurrentPalette.Info, fmt.Sprintf(format, args...))
}

// Warnf writes a line prefixed with the warning icon.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.IconWarning, styles.CurrentPalette.Warning, fmt.Sprintf(format, args...))
}

// Errorf writes a line prefixed with the error icon.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.IconError, styles.CurrentPalette.Error, fmt.Sprintf(format, args...))
}

// Notify prints a notification the way the dashboard would toast it, on one
// line: icon, bold title, message.
func (p *Printer) Notify(n notify.Notification) {
	text := n.Message
	if n.Title != "" {
		title := styles.ToastTitleStyle.Render(n.Title)
		if text != "" {
			text = title + " " + text
		} else {
			text = title
		}
	}

	switch n.Category {
	case notify.CategorySuccess:
		p.Successf("%s", text)
	case notify.CategoryError:
		p.Errorf("%s", text)
	case notify.CategoryWarning:
		p.Warnf("%s", text)
	default:
		p.Infof("%s", text)
	}
}

// Section writes a command header followed by a divider.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
	fmt.Fprintln(p.out, styles.DividerStyle.Render("────────────────────────────────────────"))
}

// KeyValue writes an aligned "key  value" row.
func (p *Printer) KeyValue(key, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", styles.KeyStyle.Width(12).Render(key), styles.ValueStyle.Render(value))
}

func (p *Printer) line(icon string, color lipgloss.Color, msg string) {
	fmt.Fprintf(p.out, "%s %s\n", lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon), msg)
}
