package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/martinemde/implore/internal/bridge"
	"github.com/martinemde/implore/internal/config"
	"github.com/martinemde/implore/internal/dialog"
	"github.com/martinemde/implore/internal/logging"
	"github.com/martinemde/implore/internal/protocol"
	"github.com/martinemde/implore/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// exitError ends the process with a specific status and no message
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{
		stdin:  os.Stdin,
		stdout: stdout,
		stderr: stderr,
		fs:     &afero.Afero{Fs: afero.NewOsFs()},
	}
	return a.execute(args)
}

// app holds the state shared by the subcommands of one invocation
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     *afero.Afero

	configPath string
	colorMode  string

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

func (a *app) execute(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args[1:])
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "implore",
		Short:         "Ask the human a question from inside an agent",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup()
			if err != nil && cmd.Name() == protocol.Subcommand {
				// the bridge only reads the result file
				outputFile, _ := cmd.Flags().GetString(protocol.FlagOutputFile)
				return &exitError{code: dialog.Fail(outputFile, err.Error())}
			}
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printHelp(cmd)
			return nil
		},
	}
	root.SetVersionTemplate("implore version {{.Version}}\n")
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		a.printHelp(cmd)
	})
	root.CompletionOptions.HiddenDefaultCmd = true

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config file (default: $XDG_CONFIG_HOME/implore/config.yaml)")
	root.PersistentFlags().StringVar(&a.colorMode, "color", render.ColorAuto, "Control color output (auto, always, never)")

	root.AddCommand(
		a.serveCmd(),
		a.uiCmd(),
		a.askCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the config and starts logging. It runs before every subcommand.
func (a *app) setup() error {
	switch a.colorMode {
	case render.ColorAuto, render.ColorAlways, render.ColorNever:
	default:
		return fmt.Errorf("invalid --color %q: must be auto, always, or never", a.colorMode)
	}
	render.ConfigureColorProfile(a.colorMode)

	path := a.configPath
	if path != "" {
		exists, err := a.fs.Exists(path)
		if err != nil {
			return fmt.Errorf("failed to check config file: %w", err)
		}
		if !exists {
			return fmt.Errorf("config file not found: %s", path)
		}
	}

	cfg, err := config.Load(a.fs, path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger, a.closer = logging.New(cfg.Log, a.stderr)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// launcher runs `implore ui` with the same config file as this process
func (a *app) launcher() *bridge.ExecLauncher {
	l := &bridge.ExecLauncher{
		Executable: a.cfg.UI.Executable,
		Terminal:   a.cfg.UI.Terminal,
	}
	if a.configPath != "" {
		path, err := filepath.Abs(a.configPath)
		if err != nil {
			path = a.configPath
		}
		l.Args = []string{"--config", path}
	}
	return l
}

func (a *app) newBridge() *bridge.Bridge {
	return bridge.New(bridge.Options{
		Launcher: a.launcher(),
		FS:       a.fs,
		Timeout:  a.cfg.Timeout,
		Logger:   a.logger,
	})
}
