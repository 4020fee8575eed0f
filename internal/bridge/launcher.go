package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Launcher starts the presentation process with the given arguments and
// blocks until it exits. The exit code is returned when the process ran to
// completion; err is non-nil only when it could not be started or was killed.
//
//go:generate mockgen -destination=mocks/launcher_mock.go -package=mocks . Launcher
type Launcher interface {
	Launch(ctx context.Context, args []string) (int, error)
}

// ExecLauncher runs the presentation process as a child with its standard
// streams detached, so it cannot write into the MCP channel.
type ExecLauncher struct {
	// Executable is the program to run. Empty means the current binary.
	Executable string
	// Terminal is prepended to the command line to open a terminal window
	Terminal []string
	// Args are appended after the presentation arguments
	Args []string
	// Env is appended to the inherited environment
	Env []string
	// WaitDelay bounds how long Wait blocks after the context is done
	WaitDelay time.Duration
}

// Launch runs the child and waits for it
func (l *ExecLauncher) Launch(ctx context.Context, args []string) (int, error) {
	argv, err := l.argv(args)
	if err != nil {
		return -1, err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// nil streams are connected to the null device
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}
	cmd.WaitDelay = l.waitDelay()

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to launch %s: %w", argv[0], err)
	}
	return 0, nil
}

// CommandLine returns the command that would be executed, quoted for display
func (l *ExecLauncher) CommandLine(args []string) string {
	argv, err := l.argv(args)
	if err != nil {
		argv = append([]string{"implore"}, args...)
	}
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \n\t\"'{}[]") {
			quoted[i] = fmt.Sprintf("%q", arg)
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}

func (l *ExecLauncher) argv(args []string) ([]string, error) {
	executable := l.Executable
	if executable == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate implore executable: %w", err)
		}
		executable = self
	}

	argv := make([]string, 0, len(l.Terminal)+1+len(args)+len(l.Args))
	argv = append(argv, l.Terminal...)
	argv = append(argv, executable)
	argv = append(argv, args...)
	argv = append(argv, l.Args...)
	return argv, nil
}

func (l *ExecLauncher) waitDelay() time.Duration {
	if l.WaitDelay > 0 {
		return l.WaitDelay
	}
	return 2 * time.Second
}
