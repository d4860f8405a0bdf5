package main

import (
	"io"

	"textdrop/internal/drop"
	"textdrop/internal/log"
	"textdrop/internal/source"
	"textdrop/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal drop target
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal drop target",
		Long: `Start the terminal drop target. Dragging files onto most terminals
pastes their paths; each paste is one drop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the alt screen owns the terminal, so logs only go to the log file
			opts := []log.Option{log.WithOutput(io.Discard)}
			if cfg.Log.File != "" {
				opts = append(opts, log.WithFile(cfg.Log.File))
			}
			log.Configure(opts...)
			log.SetDebug(cfg.Log.Debug)

			events := make(chan tea.Msg, 16)
			machine := drop.NewMachine(source.NewFileReader(cfg.Read.MaxBytes), tui.NewListener(events),
				drop.WithConcurrency(cfg.Read.Concurrency),
				drop.WithTimeout(cfg.ReadTimeout()))
			defer machine.Close()

			m, err := tui.New(cfg, machine, events)
			if err != nil {
				return err
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
