package styles

import "github.com/charmbracelet/lipgloss"

// DropZone returns the style of the drop target box. The border takes the
// highlight colour while a gesture hovers the target.
func DropZone(hovering bool, width int) lipgloss.Style {
	border := Theme.Palette.Border
	if hovering {
		border = Theme.Palette.Highlight
	}
	s := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
	if width > 0 {
		s = s.Width(width)
	}
	return s
}
