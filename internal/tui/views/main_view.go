package views

import (
	"strings"

	"textdrop/internal/tui/common"
	"textdrop/internal/tui/styles"
)

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(renderBanner(m) + "\n")
	sb.WriteString(m.DropZoneView() + "\n")

	if files := m.FileListView(); files != "" {
		sb.WriteString(files)
	}
	if status := m.StatusView(); status != "" {
		sb.WriteString(status + "\n")
	}

	if m.Mode() == common.Command {
		sb.WriteString(m.CommandBuffer() + "\n")
	}

	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp())
	}
	sb.WriteString("\n" + RenderKeyCommands())

	return styles.Theme.App.Render(sb.String())
}

func RenderKeyCommands() string {
	return styles.Theme.Help.Render("[↑/k] Scroll up  [↓/j] Scroll down  [c] Clear  [:] Command  [q] Quit  [?] Help")
}

func RenderHelp() string {
	return styles.Theme.Help.Render(`Dropping files:
  Drag files from a file manager onto this terminal, or paste their paths.
  All files of one drop are read and shown joined by newlines.

Commands:
  :drop <paths>     drop the given paths
  :decode json|yaml|raw
  :theme <name>     switch colour theme
  :clear            clear the last drop
  :q                quit
`)
}

func renderBanner(m common.ModelReader) string {
	title := styles.Theme.Title.Render("textdrop")
	state := styles.Theme.Muted.Render("idle")
	if m.Hovering() {
		state = styles.Theme.Selected.Render("drop in progress")
	}
	return m.Ambient() + " " + title + "  " + state
}
