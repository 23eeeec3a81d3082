package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/backmassage/folio/internal/check"
	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/display"
	"github.com/backmassage/folio/internal/encoder"
	"github.com/backmassage/folio/internal/pipeline"
	"github.com/backmassage/folio/internal/report"
	"github.com/backmassage/folio/internal/server"
	"github.com/backmassage/folio/internal/term"
	"github.com/backmassage/folio/internal/watch"
)

func (a *app) optimizeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "optimize [dir]",
		Short: "Convert every PNG/JPEG under dir (default ./public) to WebP",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runOptimize,
	}
	config.BindEncodeFlags(c.Flags(), &a.parsed)
	config.BindOptimizeFlags(c.Flags(), &a.parsed)
	return c
}

// runOptimize is the batch conversion. It fails only when settings are
// invalid, the selected encoder is unusable, the source cannot be
// enumerated, or the report cannot be written. Per-file failures are
// logged and leave the exit status at 0.
func (a *app) runOptimize(cmd *cobra.Command, args []string) error {
	cfg, log, err := a.setup(cmd, args, setSource)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(a.out)

	if err := check.CheckEncoder(cfg); err != nil {
		log.Error("%v", err)
		return reported(err)
	}
	enc, err := encoder.New(cfg, a.errOut)
	if err != nil {
		log.Error("%v", err)
		return reported(err)
	}

	ctx, cancel := signalContext(cmd.Context(), log, "finishing current file...")
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, enc, log)
	if err != nil {
		log.Error("%v", err)
		return reported(err)
	}

	if res.Stats.Converted > 0 && term.IsTerminal(os.Stdout) {
		fmt.Fprintln(a.out, summaryPanel(res))
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, report.New(cfg, res)); err != nil {
			log.Error("%v", err)
			return reported(err)
		}
		log.Info("Report written to %s", cfg.ReportPath)
	}
	return nil
}

func summaryPanel(res *pipeline.Result) string {
	s := res.Stats
	return display.Panel("Optimization summary", []display.Field{
		{Label: "Images", Value: fmt.Sprintf("%d converted, %d skipped, %d failed", s.Converted, s.Skipped, s.Failed)},
		{Label: "Original", Value: display.FormatKB(s.TotalOriginalKB)},
		{Label: "Optimized", Value: display.FormatKB(s.TotalOptimizedKB)},
		{Label: "Saved", Value: fmt.Sprintf("%d%% (%s)", s.SavingsPercent(), display.FormatKB(s.SavedKB()))},
	})
}

func (a *app) analyzeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "List images with size and bytes-per-pixel, flagging outliers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup(cmd, args, setSource)
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, cancel := signalContext(cmd.Context(), log, "stopping analysis")
			defer cancel()

			if _, err := pipeline.Analyze(ctx, cfg, log, a.out); err != nil {
				log.Error("%v", err)
				return reported(err)
			}
			return nil
		},
	}
	c.Flags().Int64Var(&a.parsed.WarnSizeKB, "warn-size", a.parsed.WarnSizeKB, "Count images larger than this many KB")
	return c
}

func (a *app) serveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve [dist]",
		Short: "Serve the built site bundle (default ./dist)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup(cmd, args, setDist)
			if err != nil {
				return err
			}
			defer log.Close()

			if fi, err := os.Stat(cfg.DistDir); err != nil || !fi.IsDir() {
				err = fmt.Errorf("bundle directory not found: %s", cfg.DistDir)
				log.Error("%v", err)
				return reported(err)
			}

			ctx, cancel := signalContext(cmd.Context(), log, "shutting down...")
			defer cancel()

			if err := server.New(cfg.DistDir, log).ListenAndServe(ctx, cfg.Addr); err != nil {
				log.Error("%v", err)
				return reported(err)
			}
			return nil
		},
	}
	config.BindServeFlags(c.Flags(), &a.parsed)
	return c
}

func (a *app) watchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Convert images as they are added or changed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup(cmd, args, setSource)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(a.out)
			if err := check.CheckEncoder(cfg); err != nil {
				log.Error("%v", err)
				return reported(err)
			}
			enc, err := encoder.New(cfg, a.errOut)
			if err != nil {
				log.Error("%v", err)
				return reported(err)
			}

			ctx, cancel := signalContext(cmd.Context(), log, "stopping watcher...")
			defer cancel()

			conv := pipeline.NewConverter(cfg, enc, log)
			w := watch.New(cfg.SourceDir, msDuration(cfg.DebounceMS), conv, log)
			if err := w.Run(ctx); err != nil {
				log.Error("%v", err)
				return reported(err)
			}
			return nil
		},
	}
	config.BindEncodeFlags(c.Flags(), &a.parsed)
	config.BindWatchFlags(c.Flags(), &a.parsed)
	return c
}

func (a *app) checkCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "Report which WebP encoders are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup(cmd, args, nil)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(a.out)
			check.RunCheck(cfg, log)
			return nil
		},
	}
	config.BindEncodeFlags(c.Flags(), &a.parsed)
	return c
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "folio %s\n", a.build.Version)
			fmt.Fprintf(a.out, "  commit: %s\n", a.build.Commit)
			fmt.Fprintf(a.out, "  built:  %s\n", a.build.Date)
		},
	}
}

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
