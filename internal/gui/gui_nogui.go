//go:build nogui

package gui

import (
	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
)

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(cfg *config.Config, opts ...drop.Option) error {
	return errors.New("GUI not available in this build, use the tui command instead")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
