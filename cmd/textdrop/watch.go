package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
	"textdrop/internal/log"
	"textdrop/internal/metrics"
	"textdrop/internal/payload"
	"textdrop/internal/source"
	"textdrop/internal/watch"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch [directory]...",
		Short: "Treat files copied into drop folders as drops",
		Long: `Watch turns directories into drop targets. Files that arrive close
together form one drop; once the folder has been quiet for the settle period
the drop ends and the joined text is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Watch.Directories = args
			}
			if cmd.Flags().Changed("metrics-address") {
				cfg.Metrics.Address = metricsAddr
			}
			if len(cfg.Watch.Directories) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), errorText("No drop folders given."))
				fmt.Fprintln(cmd.ErrOrStderr(), infoText("Pass directories as arguments or add them under 'watch: directories:' in your config."))
				return errors.NewKind("no drop folders configured", errors.InvalidConfig, nil)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-address", "", "serve prometheus metrics on this address")

	return cmd
}

// runWatch blocks until ctx is cancelled, printing every completed drop
func runWatch(ctx context.Context, cfg *config.Config, out, status io.Writer) error {
	acceptor, err := drop.NewAcceptor(cfg.Accept.Types...)
	if err != nil {
		return err
	}

	opts := []drop.Option{
		drop.WithConcurrency(cfg.Read.Concurrency),
		drop.WithTimeout(cfg.ReadTimeout()),
	}

	var wg sync.WaitGroup
	if cfg.Metrics.Address != "" {
		m := metrics.New()
		opts = append(opts, drop.WithRecorder(m))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Serve(ctx, cfg.Metrics.Address); err != nil {
				log.LogWithError(err).Error("Metrics server stopped")
			}
		}()
		fmt.Fprintln(status, infoText("Serving metrics on "+cfg.Metrics.Address+"/metrics"))
	}

	var mu sync.Mutex
	machine := drop.NewMachine(source.NewFileReader(cfg.Read.MaxBytes), drop.ListenerFuncs{
		OnContent: func(text string) {
			rendered, err := payload.Render(text, cfg.Output.Decode)
			if err != nil {
				log.LogWithError(err).Warn("Cannot decode drop")
				rendered = text
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(status, successText("Received "+humanize.Bytes(uint64(len(text)))))
			fmt.Fprintln(out, rendered)
		},
		OnFailure: func(err error) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(status, errorText(describeFailure(err)))
		},
	}, opts...)
	defer machine.Close()

	daemon, err := watch.NewDaemon(cfg, machine, acceptor)
	if err != nil {
		return err
	}
	daemon.SetCallback(func(path string) {
		log.LogWithFields(log.F("path", path)).Debug("file dropped into folder")
	})
	if err := daemon.Start(); err != nil {
		return err
	}

	fmt.Fprintln(status, infoText("Watching drop folders. Press Ctrl+C to stop."))
	for _, dir := range daemon.Status().WatchDirectories {
		fmt.Fprintf(status, "  - %s\n", dir)
	}

	<-ctx.Done()

	fmt.Fprintln(status, infoText("Stopping watch..."))
	daemon.Stop()
	machine.Wait()
	wg.Wait()

	st := daemon.Status()
	fmt.Fprintln(status, successText(fmt.Sprintf("Watch stopped after %d drop(s) of %d file(s)", st.Gestures, st.FilesDropped)))
	return nil
}

// describeFailure names the dropped file a failed read stopped on
func describeFailure(err error) string {
	if !errors.IsReadFailure(err) {
		return "Drop failed: " + err.Error()
	}
	var readErr *errors.ReadError
	errors.As(err, &readErr)
	name := readErr.Address()
	if name == "" {
		name = fmt.Sprintf("item %d", readErr.Index()+1)
	}
	msg := "Drop failed on " + name
	if cause := errors.Unwrap(readErr); cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}
