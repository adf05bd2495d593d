package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/share-cli/internal/ports"
)

var ErrUnavailable = errors.New("clipboard command unavailable")

type runFunc func(ctx context.Context, input string, name string, args ...string) (stdout string, stderr string, err error)

// Command copies text by piping it into an external clipboard tool.
type Command struct {
	name string
	args []string
	run  runFunc
}

var _ ports.Clipboard = (*Command)(nil)

func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args, run: runClipboardCommand}
}

func (c *Command) Name() string {
	return c.name
}

func (c *Command) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := c.run(ctx, text, c.name, c.args...)
	if err != nil {
		return formatError(c.name, err, stderr)
	}

	return nil
}

func runClipboardCommand(ctx context.Context, input string, name string, args ...string) (string, string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate %s command: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(name string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("%s: %w", name, err)
	}

	return fmt.Errorf("%s: %w: %s", name, err, stderr)
}
