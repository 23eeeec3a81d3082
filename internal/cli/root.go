// Package cli wires the folio commands: optimize (the default), analyze,
// serve, watch, check and version.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/logging"
	"github.com/backmassage/folio/internal/term"
)

// defaultSettingsFile is read from the working directory when --config is
// not given. Its absence is not an error.
const defaultSettingsFile = "folio.yaml"

// BuildInfo is injected by main from -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app carries what every command needs: parsed flag values, the
// --config path, and the console writers.
type app struct {
	build      BuildInfo
	parsed     config.Config
	configPath string
	out        io.Writer
	errOut     io.Writer
}

// Execute runs the command line and returns the process exit code.
func Execute(build BuildInfo) int {
	cmd := newRootCmd(build, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		var r *reportedError
		if !errors.As(err, &r) {
			fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		}
		return 1
	}
	return 0
}

// reportedError marks an error that has already been written to the
// console, so Execute only sets the exit code.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error { return &reportedError{err: err} }

func newRootCmd(build BuildInfo, out, errOut io.Writer) *cobra.Command {
	a := &app{
		build:  build,
		parsed: config.DefaultConfig(),
		out:    out,
		errOut: errOut,
	}

	cmd := &cobra.Command{
		Use:   "folio [dir]",
		Short: "Convert site images to WebP and serve the built bundle",
		Long: "folio converts every .png, .jpg and .jpeg under a directory (default ./public)\n" +
			"to a .webp sibling and reports the size savings.\n\n" +
			"Run without a subcommand it behaves like \"folio optimize\".",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runOptimize,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	config.BindGlobalFlags(cmd.PersistentFlags(), &a.parsed, &a.configPath)
	config.BindEncodeFlags(cmd.Flags(), &a.parsed)
	config.BindOptimizeFlags(cmd.Flags(), &a.parsed)

	cmd.AddCommand(
		a.optimizeCmd(),
		a.analyzeCmd(),
		a.serveCmd(),
		a.watchCmd(),
		a.checkCmd(),
		a.versionCmd(),
	)
	return cmd
}

// settings resolves the effective configuration for cmd: defaults, then
// the settings file, then the flags the user actually passed.
func (a *app) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := a.configPath
	explicit := path != ""
	if !explicit {
		path = defaultSettingsFile
	}
	if err := config.LoadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, config.ErrNoSettingsFile) {
			return nil, err
		}
	}

	config.ApplyChanged(cmd.Flags(), &cfg, &a.parsed)
	return &cfg, nil
}

// setup resolves settings, applies an optional directory argument via
// setDir, validates, and opens the logger. Errors before the logger exists
// go straight to the error writer.
func (a *app) setup(cmd *cobra.Command, args []string, setDir func(*config.Config, string)) (*config.Config, *logging.Logger, error) {
	cfg, err := a.settings(cmd)
	if err == nil {
		if len(args) > 0 && setDir != nil {
			setDir(cfg, config.NormalizeDirArg(args[0]))
		}
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "folio: %v\n", err)
		return nil, nil, reported(err)
	}

	term.Configure(cfg.ColorMode)
	log, err := logging.NewLoggerTo(a.out, a.errOut, cfg)
	if err != nil {
		fmt.Fprintf(a.errOut, "folio: %v\n", err)
		return nil, nil, reported(err)
	}
	return cfg, log, nil
}

// signalContext is cancelled on SIGINT/SIGTERM so long-running commands
// stop between files or drain in-flight requests.
func signalContext(parent context.Context, log *logging.Logger, note string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Warn("Received interrupt, %s", note)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func setSource(cfg *config.Config, dir string) { cfg.SourceDir = dir }
func setDist(cfg *config.Config, dir string)   { cfg.DistDir = dir }
