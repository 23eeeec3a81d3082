package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/display"
	"github.com/backmassage/folio/internal/encoder"
	"github.com/backmassage/folio/internal/logging"
)

const summaryRule = 50

// Failure names a file that could not be converted.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Result is everything a batch run produced. Stats covers converted
// records only; failed files appear in Failures and nowhere else.
type Result struct {
	Stats      RunStats
	Records    []*Record
	Failures   []Failure
	StartedAt  time.Time
	FinishedAt time.Time
}

// Interrupted reports whether the run stopped before visiting every file.
func (r *Result) Interrupted() bool {
	return r.Stats.Current < r.Stats.Total
}

// Run is the top-level batch entry point. It discovers images under
// cfg.SourceDir, converts each one sequentially, and logs a summary.
//
// The returned error is non-nil only when discovery fails. Per-file
// failures are logged, recorded in Result.Failures, and otherwise
// ignored. A cancelled ctx stops the loop between files; the file in
// progress is converted under a context that ignores the cancellation, so
// external encoders are not killed mid-file.
func Run(ctx context.Context, cfg *config.Config, enc encoder.Encoder, log *logging.Logger) (*Result, error) {
	res := &Result{StartedAt: time.Now()}

	log.Info("Starting image optimization...")
	log.Debug("Source: %s, encoder: %s, quality: %d, method: %d",
		cfg.SourceDir, enc.Name(), cfg.Quality, cfg.Method)

	files, err := Discover(cfg.SourceDir)
	if err != nil {
		res.FinishedAt = time.Now()
		return res, fmt.Errorf("discover images in %s: %w", cfg.SourceDir, err)
	}

	res.Stats.Total = len(files)
	if len(files) == 0 {
		log.Warn("No images found to optimize.")
		res.FinishedAt = time.Now()
		return res, nil
	}
	log.Info("Found %d images to optimize", len(files))
	if cfg.DryRun {
		log.Info("Dry run: no files will be written")
	}
	log.Blank()

	conv := NewConverter(cfg, enc, log)
	fileCtx := context.WithoutCancel(ctx)
	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted after %d of %d images", i, len(files))
			break
		}
		res.Stats.Current = i + 1

		rec, outcome, err := conv.Convert(fileCtx, path)
		switch outcome {
		case OutcomeConverted:
			res.Stats.Add(rec)
			res.Records = append(res.Records, rec)
		case OutcomeSkipped:
			res.Stats.Skipped++
		case OutcomePlanned:
			res.Stats.Planned++
		case OutcomeFailed:
			res.Stats.Failed++
			res.Failures = append(res.Failures, Failure{Path: path, Error: err.Error()})
		}
		log.Blank()
	}

	res.FinishedAt = time.Now()
	logSummary(cfg, log, res)
	return res, nil
}

func logSummary(cfg *config.Config, log *logging.Logger, res *Result) {
	s := &res.Stats
	rule := strings.Repeat("=", summaryRule)

	log.Info("%s", rule)
	log.Success("Optimization complete!")
	log.Info("Original size: %s", display.FormatKB(s.TotalOriginalKB))
	log.Info("Optimized size: %s", display.FormatKB(s.TotalOptimizedKB))

	saved := s.SavedKB()
	if saved >= 0 {
		log.Success("Total savings: %d%% (%s)", s.SavingsPercent(), display.FormatKB(saved))
	} else {
		log.Warn("Total savings: %d%% (%s, outputs are larger)", s.SavingsPercent(), display.FormatKBWithSign(saved))
	}

	log.Info("Converted: %d, skipped: %d, failed: %d", s.Converted, s.Skipped, s.Failed)
	if cfg.DryRun {
		log.Info("Planned (dry run): %d", s.Planned)
	}
	log.Debug("Elapsed: %s", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	log.Info("%s", rule)
}
