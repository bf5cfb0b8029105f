// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:   "#7aa2f7",
		Secondary: "#7dcfff",
		Muted:     "#565f89",
		Success:   "#9ece6a",
		Warning:   "#e0af68",
		Error:     "#f7768e",
	},
	"gruvbox": {
		Primary:   "#83a598",
		Secondary: "#8ec07c",
		Muted:     "#665c54",
		Success:   "#b8bb26",
		Warning:   "#fabd2f",
		Error:     "#fb4934",
	},
	"catppuccin": {
		Primary:   "#89b4fa",
		Secondary: "#94e2d5",
		Muted:     "#6c7086",
		Success:   "#a6e3a1",
		Warning:   "#f9e2af",
		Error:     "#f38ba8",
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

// Style exports, rebuilt by SetTheme.
var (
	HeaderStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	IDStyle      lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	InfoStyle    lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	HeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	IDStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	InfoStyle = lipgloss.NewStyle().Foreground(p.Primary)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
