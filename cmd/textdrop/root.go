package main

import (
	"fmt"

	"textdrop/internal/config"
	"textdrop/internal/errors"
	"textdrop/internal/log"
	"textdrop/internal/tui/styles"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "textdrop",
		Short: "Drop text files onto a target and get their contents",
		Long: drawLogo() + `
textdrop reads the files dropped onto it and joins their text in drop order.
Drop onto the window (gui), paste paths into the terminal (tui), copy files
into a drop folder (watch) or name them on the command line (read).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				// a config file that parses but is wrong is never silently replaced
				if cfgFile != "" || errors.IsInvalidConfig(err) {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), warningText(fmt.Sprintf("Warning: %v", err)))
				fmt.Fprintln(cmd.ErrOrStderr(), infoText("Using default settings. Run 'textdrop config init' to write a config file."))
				cfg = config.New()
			}
			if debug {
				cfg.Log.Debug = true
			}

			configureLogging(cmd, cfg)
			styles.UseTheme(cfg.UI.Theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/textdrop/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every state transition")

	rootCmd.AddCommand(NewReadCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// configureLogging sends logs to stderr, keeping stdout for dropped text
func configureLogging(cmd *cobra.Command, cfg *config.Config) {
	opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	log.Configure(opts...)
	log.SetDebug(cfg.Log.Debug)
}
