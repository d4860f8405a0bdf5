package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
	"textdrop/internal/payload"
	"textdrop/internal/source"
	"textdrop/pkg/types"

	"github.com/spf13/cobra"
)

// NewReadCmd creates the read command: one drop of the named files
func NewReadCmd() *cobra.Command {
	var decode string

	cmd := &cobra.Command{
		Use:   "read <file>...",
		Short: "Drop files once and print their joined text",
		Long: `Read performs a single drop of the given files. Their contents are
joined with newlines in the order given. If any file cannot be read nothing
is printed and the command fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("decode") {
				cfg.Output.Decode = decode
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runRead(ctx, cfg, cmd.OutOrStdout(), types.Addresses(args...))
		},
	}

	cmd.Flags().StringVar(&decode, "decode", "", "render the text as json or yaml")

	return cmd
}

// runRead drives one enter/drop/exit gesture and writes the result to out
func runRead(ctx context.Context, cfg *config.Config, out io.Writer, addrs []types.Address) error {
	if len(addrs) == 0 {
		return errors.New("no files to read")
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	machine := drop.NewMachine(source.NewFileReader(cfg.Read.MaxBytes), drop.ListenerFuncs{
		OnContent: func(text string) { done <- result{text: text} },
		OnFailure: func(err error) { done <- result{err: err} },
	}, drop.WithConcurrency(cfg.Read.Concurrency), drop.WithTimeout(cfg.ReadTimeout()))
	defer machine.Close()

	if err := machine.Enter(); err != nil {
		return err
	}
	if err := machine.DropAddresses(addrs...); err != nil {
		return err
	}
	machine.Exit()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if res.err != nil {
		return res.err
	}

	rendered, err := payload.Render(res.text, cfg.Output.Decode)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return err
	}
	if cfg.Output.Decode == payload.FormatRaw && rendered != "" && rendered[len(rendered)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}
