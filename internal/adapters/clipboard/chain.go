package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/bnema/share-cli/internal/ports"
)

var errNoClipboards = errors.New("no clipboard commands configured")

// Chain tries each clipboard in order until one succeeds.
type Chain struct {
	clipboards []ports.Clipboard
}

var _ ports.Clipboard = (*Chain)(nil)

func NewChain(clipboards ...ports.Clipboard) *Chain {
	return &Chain{clipboards: clipboards}
}

// NewSystem returns the clipboard tools usually present on this platform.
func NewSystem() *Chain {
	return NewChain(systemCommands(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "")...)
}

func systemCommands(goos string, wayland bool) []ports.Clipboard {
	switch goos {
	case "darwin":
		return []ports.Clipboard{NewCommand("pbcopy")}
	case "windows":
		return []ports.Clipboard{NewCommand("clip.exe")}
	}

	commands := make([]ports.Clipboard, 0, 4)
	if wayland {
		commands = append(commands, NewCommand("wl-copy"))
	}
	return append(commands,
		NewCommand("xclip", "-selection", "clipboard"),
		NewCommand("xsel", "--clipboard", "--input"),
		NewCommand("termux-clipboard-set"),
	)
}

func (c *Chain) Copy(ctx context.Context, text string) error {
	if len(c.clipboards) == 0 {
		return errNoClipboards
	}

	var errs []error
	for _, clipboard := range c.clipboards {
		err := clipboard.Copy(ctx, text)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, err)
	}

	return fmt.Errorf("copy to clipboard: %w", errors.Join(errs...))
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
