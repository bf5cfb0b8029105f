package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Equal(t, []string{"catppuccin", "gruvbox", "tokyo-night"}, names)

	for _, n := range names {
		_, ok := GetPalette(n)
		assert.True(t, ok, n)
	}

	_, ok := GetPalette("solarized")
	assert.False(t, ok)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("gruvbox")
	SetTheme(p)

	assert.Equal(t, p.Error, ErrorStyle.GetForeground())
	assert.True(t, HeaderStyle.GetBold())
}
