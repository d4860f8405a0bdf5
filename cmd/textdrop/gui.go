package main

import (
	"textdrop/internal/gui"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the drop window",
		Long:  `Open a window with a drop target. Drop text files onto it to see their contents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if gui.IsGUIAvailable() {
				cmd.PrintErrln(infoText("Launching GUI interface..."))
			}
			return gui.StartGUI(cfg)
		},
	}
}
