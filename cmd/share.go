package cmd

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/share-cli/internal/adapters/render/status"
	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/logging"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// isTerminal reports whether v is a file descriptor attached to a terminal.
var isTerminal = func(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runShare(cmd *cobra.Command, args []string, opts shareOptions) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source := domain.Source{Name: opts.name}
	if len(args) > 0 {
		source.Path = args[0]
	} else if in := cmd.InOrStdin(); !isTerminal(in) {
		source.Stdin = pipedInput(in, opts.name)
	}

	out := cmd.OutOrStdout()
	plain := opts.plain || !isTerminal(out)

	logOutput := io.Discard
	if plain {
		logOutput = cmd.ErrOrStderr()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Output: logOutput,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	var observer ports.SessionObserver
	controller := wireController(cfg, opts.password, logger, ports.SessionObserverFunc(func(snap domain.Snapshot) {
		observer.Observe(snap)
	}))

	var live *status.Live
	if plain {
		observer = status.NewPlain(out)
		stopInterrupts := shutdownOnInterrupt(controller)
		defer stopInterrupts()
	} else {
		liveOpts := status.LiveOptions{Output: out}
		if source.Stdin == nil {
			liveOpts.Input = cmd.InOrStdin()
		}
		live = status.NewLive(ctx, controller, liveOpts)
		observer = live
		live.Start()
	}

	runErr := controller.Run(ctx, source)

	if live != nil {
		if err := live.Stop(); err != nil {
			logger.WithError(err).Warn("status view stopped with error")
		}
	}

	if runErr != nil {
		logger.WithError(runErr).Debug("session failed")
		var sessionErr *domain.SessionError
		if errors.As(runErr, &sessionErr) && sessionErr.Kind == domain.FatalMissingInput {
			_ = cmd.Usage()
		}
		return runErr
	}
	return nil
}

// pipedInput returns nil for an empty stream with no download name, such
// as stdin redirected from /dev/null, so it counts as missing input.
func pipedInput(in io.Reader, name string) io.Reader {
	if name != "" {
		return in
	}
	buffered := bufio.NewReader(in)
	if _, err := buffered.Peek(1); errors.Is(err, io.EOF) {
		return nil
	}
	return buffered
}

// shutdownOnInterrupt turns SIGINT into a session shutdown request.
func shutdownOnInterrupt(controls status.Controls) func() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-interrupts:
				controls.Shutdown()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(interrupts)
		close(done)
	}
}

