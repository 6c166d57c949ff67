package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/core/styles"
)

const (
	toastMarginTop   = 1
	toastMarginRight = 2
)

// ToastSource is the read side of the notification center.
type ToastSource interface {
	Active() []notify.Notification
}

// ToastView renders the active notifications as a stack of toasts and
// composites them over the dashboard. It never mutates the source.
type ToastView struct {
	source ToastSource
	limit  int
}

// NewToastView creates a view over source showing at most limit toasts.
// A non-positive limit shows everything.
func NewToastView(source ToastSource, limit int) *ToastView {
	return &ToastView{source: source, limit: limit}
}

// Visible returns the toasts that fit the display limit (the newest ones, in
// insertion order) and the number of older toasts left out.
func (v *ToastView) Visible() ([]notify.Notification, int) {
	active := v.source.Active()
	if v.limit <= 0 || len(active) <= v.limit {
		return active, 0
	}
	hidden := len(active) - v.limit
	return active[hidden:], hidden
}

// At returns the i-th visible toast, counting from 1 at the top of the stack.
func (v *ToastView) At(i int) (notify.Notification, bool) {
	visible, _ := v.Visible()
	if i < 1 || i > len(visible) {
		return notify.Notification{}, false
	}
	return visible[i-1], true
}

// View renders the toast stack, oldest at the top. Returns "" when there is
// nothing to show.
func (v *ToastView) View() string {
	visible, hidden := v.Visible()
	if len(visible) == 0 {
		return ""
	}

	parts := make([]string, 0, len(visible)+1)
	if hidden > 0 {
		parts = append(parts, styles.ToastMoreStyle.Render(fmt.Sprintf("+%d more", hidden)))
	}
	for _, n := range visible {
		parts = append(parts, renderToast(n))
	}

	return lipgloss.JoinVertical(lipgloss.Right, parts...)
}

func renderToast(n notify.Notification) string {
	icon, color := categoryLook(n.Category)
	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	var body string
	if n.Title != "" {
		body = iconStyle.Render(icon) + " " + styles.ToastTitleStyle.Render(n.Title)
		if n.Message != "" {
			body += "\n" + styles.ToastBodyStyle.Render(n.Message)
		}
	} else {
		body = iconStyle.Render(icon) + " " + styles.ToastBodyStyle.Render(n.Message)
	}

	return styles.ToastStyle.BorderForeground(color).Render(body)
}

func categoryLook(c notify.Category) (string, lipgloss.Color) {
	p := styles.CurrentPalette
	switch c {
	case notify.CategorySuccess:
		return styles.IconSuccess, p.Success
	case notify.CategoryError:
		return styles.IconError, p.Error
	case notify.CategoryWarning:
		return styles.IconWarning, p.Warning
	default:
		return styles.IconInfo, p.Info
	}
}

// Overlay draws the toast stack over background in the top-right corner.
// Rows of the stack that fall below height are cut off.
func (v *ToastView) Overlay(background string, width, height int) string {
	stack := v.View()
	if stack == "" {
		return background
	}

	bg := strings.Split(background, "\n")
	for len(bg) < height {
		bg = append(bg, "")
	}

	fg := strings.Split(stack, "\n")
	fgWidth := lipgloss.Width(stack)
	x := max(width-fgWidth-toastMarginRight, 0)

	for i, line := range fg {
		y := toastMarginTop + i
		if y >= len(bg) || (height > 0 && y >= height) {
			break
		}
		bg[y] = splice(bg[y], line, x, fgWidth)
	}

	return strings.Join(bg, "\n")
}

// splice replaces the cells [x, x+w) of line with fg, padding line with
// spaces when it is shorter than x. Styling outside the window is kept.
func splice(line, fg string, x, w int) string {
	left := ansi.Truncate(line, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	if fw := ansi.StringWidth(fg); fw < w {
		fg = strings.Repeat(" ", w-fw) + fg
	}

	right := ""
	if ansi.StringWidth(line) > x+w {
		right = ansi.TruncateLeft(line, x+w, "")
	}

	return left + "\x1b[0m" + fg + "\x1b[0m" + right
}
