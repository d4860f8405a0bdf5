package main

import (
	"textdrop/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

func drawLogo() string {
	return `
  _            _      _
 | |_ _____ __| |_ __| |_ _ ___ _ __
 |  _/ -_) \ /  _/ _' | '_/ _ \ '_ \
  \__\___/_\_\\__\__,_|_| \___/ .__/
                              |_|
`
}

func infoText(s string) string {
	return lipgloss.NewStyle().Foreground(styles.Theme.Palette.Primary).Render(s)
}

func successText(s string) string {
	return lipgloss.NewStyle().Foreground(styles.Theme.Palette.Highlight).Render(s)
}

func warningText(s string) string {
	return styles.Theme.Muted.Render(s)
}

func errorText(s string) string {
	return styles.Theme.Error.Render(s)
}
