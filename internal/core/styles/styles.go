// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Info       lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "foodverse"

var themes = map[string]Palette{
	"foodverse": {
		Primary:    lipgloss.Color("#22c55e"),
		Secondary:  lipgloss.Color("#f59e0b"),
		Foreground: lipgloss.Color("#e5e7eb"),
		Muted:      lipgloss.Color("#6b7280"),
		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#1f2937"),
		Success:    lipgloss.Color("#16a34a"),
		Warning:    lipgloss.Color("#eab308"),
		Error:      lipgloss.Color("#dc2626"),
		Info:       lipgloss.Color("#3b82f6"),
	},
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Info:       lipgloss.Color("#7aa2f7"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
		Info:       lipgloss.Color("#83a598"),
	},
	"catppuccin": {
		Primary:    lipgloss.Color("#a6e3a1"), // Green
		Secondary:  lipgloss.Color("#fab387"), // Peach
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0
		Background: lipgloss.Color("#1e1e2e"), // Base
		Surface:    lipgloss.Color("#313244"), // Surface0
		Success:    lipgloss.Color("#a6e3a1"),
		Warning:    lipgloss.Color("#f9e2af"), // Yellow
		Error:      lipgloss.Color("#f38ba8"), // Red
		Info:       lipgloss.Color("#89b4fa"), // Blue
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	KeyStyle           lipgloss.Style
	ValueStyle         lipgloss.Style

	// Dashboard.
	AppTitleStyle      lipgloss.Style
	HeaderStyle        lipgloss.Style
	RoleBadgeStyle     lipgloss.Style
	SectionTitleStyle  lipgloss.Style
	ItemStyle          lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	MutedStyle         lipgloss.Style
	PriceStyle         lipgloss.Style
	OldPriceStyle      lipgloss.Style
	DiscountStyle      lipgloss.Style
	StatusPendingStyle lipgloss.Style
	DetailPanelStyle   lipgloss.Style
	LoginPanelStyle    lipgloss.Style
	ErrorTextStyle     lipgloss.Style

	// Toasts.
	ToastStyle      lipgloss.Style
	ToastTitleStyle lipgloss.Style
	ToastBodyStyle  lipgloss.Style
	ToastMoreStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	KeyStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Width(10)
	ValueStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)

	AppTitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	HeaderStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.Surface).
		MarginBottom(1)
	RoleBadgeStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Surface).
		Foreground(p.Secondary)
	SectionTitleStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true).
		MarginBottom(1)
	ItemStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	PriceStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)
	OldPriceStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Strikethrough(true)
	DiscountStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)
	StatusPendingStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	DetailPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	LoginPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ErrorTextStyle = lipgloss.NewStyle().
		Foreground(p.Error)

	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(toastWidth)
	ToastTitleStyle = lipgloss.NewStyle().
		Bold(true)
	ToastBodyStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	ToastMoreStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		PaddingLeft(2)
}

// toastWidth is the fixed content width of a toast.
const toastWidth = 40

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
