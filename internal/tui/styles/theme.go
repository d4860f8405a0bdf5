package styles

import (
	"textdrop/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colours of the active theme
type Palette struct {
	Primary   lipgloss.Color
	Highlight lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
}

// Theme defines the core UI styles
var Theme = struct {
	Palette  Palette
	App      lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
}{}

func init() {
	UseTheme("default")
}

// UseTheme switches the UI styles to the named theme from config.GetTheme
func UseTheme(name string) {
	colors := config.GetTheme(name)
	p := Palette{
		Primary:   lipgloss.Color(colors["primary"]),
		Highlight: lipgloss.Color(colors["highlight"]),
		Error:     lipgloss.Color(colors["error"]),
		Muted:     lipgloss.Color(colors["muted"]),
		Border:    lipgloss.Color(colors["border"]),
	}

	Theme.Palette = p
	Theme.App = lipgloss.NewStyle().Padding(1, 2)
	Theme.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)
	Theme.Selected = lipgloss.NewStyle().
		Foreground(p.Highlight).
		Bold(true)
	Theme.Muted = lipgloss.NewStyle().
		Foreground(p.Muted)
	Theme.Help = lipgloss.NewStyle().
		Foreground(p.Muted)
	Theme.Error = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
}
