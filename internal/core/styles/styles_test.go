package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Contains(t, names, DefaultTheme)
	assert.IsIncreasing(t, names)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)
	SetTheme(p)

	assert.Equal(t, p, CurrentPalette)
	assert.Equal(t, p.Primary, AppTitleStyle.GetForeground())

	_, ok = GetPalette("nope")
	assert.False(t, ok)
}

func TestGlamourStyle_followsPalette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.H2.Color)
	assert.Equal(t, string(CurrentPalette.Primary), *cfg.H2.Color)
	require.NotNil(t, cfg.Document.Margin)
	assert.Zero(t, *cfg.Document.Margin)
}

func TestFormTheme_followsPalette(t *testing.T) {
	theme := FormTheme()
	assert.Equal(t, CurrentPalette.Primary, theme.Focused.Title.GetForeground())
	assert.Equal(t, CurrentPalette.Error, theme.Focused.ErrorMessage.GetForeground())
}
