//go:build !nogui

package gui

import (
	"textdrop/internal/config"
	"textdrop/internal/drop"
)

// StartGUI opens the drop window and blocks until it is closed
func StartGUI(cfg *config.Config, opts ...drop.Option) error {
	ui, err := NewFactory(cfg, opts...).Create()
	if err != nil {
		return err
	}
	ui.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
