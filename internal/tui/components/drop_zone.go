package components

import (
	"textdrop/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const placeholder = "Drag files onto this terminal or paste their paths"

// DropZone is the bordered drop target. It shows the last combined text in a
// scrollable viewport.
type DropZone struct {
	viewport viewport.Model
	hovering bool
	content  string
	width    int
	height   int
}

func NewDropZone() *DropZone {
	return &DropZone{
		viewport: viewport.New(60, 10),
		width:    60,
		height:   10,
	}
}

// SetSize sets the outer size of the zone, border included
func (dz *DropZone) SetSize(width, height int) {
	dz.width = width
	dz.height = height
	// border and padding take 6 columns and 4 rows
	dz.viewport.Width = max(width-6, 10)
	dz.viewport.Height = max(height-4, 3)
}

func (dz *DropZone) SetHovering(hovering bool) {
	dz.hovering = hovering
}

func (dz *DropZone) Hovering() bool {
	return dz.hovering
}

func (dz *DropZone) SetContent(text string) {
	dz.content = text
	dz.viewport.SetContent(text)
	dz.viewport.GotoTop()
}

func (dz *DropZone) Content() string {
	return dz.content
}

func (dz *DropZone) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	dz.viewport, cmd = dz.viewport.Update(msg)
	return cmd
}

func (dz *DropZone) View() string {
	body := dz.viewport.View()
	switch {
	case dz.hovering:
		body = styles.Theme.Selected.Render("Release to drop")
	case dz.content == "":
		body = styles.Theme.Muted.Render(placeholder)
	}
	return styles.DropZone(dz.hovering, dz.width-2).Render(body)
}

// Copy returns a copy of the DropZone
func (dz *DropZone) Copy() *DropZone {
	c := *dz
	return &c
}
