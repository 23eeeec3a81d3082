package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/display"
	"github.com/backmassage/folio/internal/encoder"
	"github.com/backmassage/folio/internal/logging"
	"github.com/backmassage/folio/internal/naming"
	"github.com/backmassage/folio/internal/planner"
	"github.com/backmassage/folio/internal/probe"
)

// Outcome is what happened to one file.
type Outcome int

const (
	OutcomeConverted Outcome = iota
	OutcomeSkipped
	OutcomePlanned // dry-run
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomePlanned:
		return "planned"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is the size comparison for one converted file.
type Record struct {
	Source      string        `json:"source"`
	Output      string        `json:"output"`
	Format      string        `json:"format"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	OutWidth    int           `json:"out_width"`
	OutHeight   int           `json:"out_height"`
	OriginalKB  int64         `json:"original_kb"`
	OptimizedKB int64         `json:"optimized_kb"`
	Savings     int           `json:"savings_percent"`
	Large       bool          `json:"large"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// SavedKB returns OriginalKB - OptimizedKB.
func (r *Record) SavedKB() int64 { return r.OriginalKB - r.OptimizedKB }

// Converter converts single files. It is shared by the batch runner and
// the watcher, and must be used from one goroutine at a time.
type Converter struct {
	cfg     *config.Config
	enc     encoder.Encoder
	log     *logging.Logger
	tracker *naming.CollisionTracker
}

// NewConverter wires a converter for one run (or one watch session).
func NewConverter(cfg *config.Config, enc encoder.Encoder, log *logging.Logger) *Converter {
	return &Converter{
		cfg:     cfg,
		enc:     enc,
		log:     log,
		tracker: naming.NewCollisionTracker(),
	}
}

// Convert handles one image: stat, probe, plan, encode, verify, then
// measure. Any failure is logged with the offending path and returned;
// the record is nil unless the outcome is OutcomeConverted. Callers treat
// a returned error as "skip this file", never as fatal.
func (c *Converter) Convert(ctx context.Context, path string) (*Record, Outcome, error) {
	rec, outcome, err := c.convert(ctx, path)
	if err != nil {
		c.log.Error("Error processing %s: %v", path, err)
		return nil, OutcomeFailed, err
	}
	return rec, outcome, nil
}

func (c *Converter) convert(ctx context.Context, path string) (*Record, Outcome, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	sizeKB := ToKB(fi.Size())
	c.log.Info("Processing: %s (%s)", path, display.FormatKB(sizeKB))

	// --- Probe ---
	info, err := probe.Probe(path)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	c.log.Debug("  Source: %s %s, %s (%.2f B/px)", info.Format, info.Resolution(),
		display.FormatBytes(info.Size), info.BytesPerPixel())

	// --- Output path ---
	output, ok := naming.OutputPath(path)
	if !ok {
		return nil, OutcomeFailed, fmt.Errorf("not a convertible image: %s", path)
	}
	if prev, collided := c.tracker.Claim(path, output); collided {
		c.log.Warn("  %s also maps to %s; it replaces the output of %s", path, output, prev)
	}

	_, statErr := os.Stat(output)
	outputExists := statErr == nil

	// --- Plan ---
	plan := planner.BuildPlan(c.cfg, info, output, outputExists)
	if plan.Action == planner.ActionSkip {
		c.log.Warn("Skip (%s): %s", plan.SkipReason, output)
		return nil, OutcomeSkipped, nil
	}
	if plan.Resizes() {
		c.log.Info("  Resize: %s -> %s", info.Resolution(),
			display.FormatDimensions(plan.ResizeWidth, plan.ResizeHeight))
	}

	if c.cfg.DryRun {
		c.log.Success("[DRY] Would create: %s (quality %d)", output, plan.Quality)
		return nil, OutcomePlanned, nil
	}

	// --- Encode ---
	start := time.Now()
	if err := c.enc.Encode(ctx, plan); err != nil {
		return nil, OutcomeFailed, err
	}

	// --- Verify and measure ---
	out, err := probe.ProbeWebP(output)
	if err != nil {
		return nil, OutcomeFailed, err
	}

	rec := &Record{
		Source:      path,
		Output:      output,
		Format:      info.Format,
		Width:       info.Width,
		Height:      info.Height,
		OutWidth:    out.Width,
		OutHeight:   out.Height,
		OriginalKB:  sizeKB,
		OptimizedKB: ToKB(out.Size),
		Elapsed:     time.Since(start),
	}
	rec.Savings = SavingsPercent(rec.OriginalKB, rec.OptimizedKB)
	rec.Large = rec.OptimizedKB > c.cfg.WarnSizeKB

	c.log.Success("Created: %s (%s)", output, display.FormatKB(rec.OptimizedKB))
	c.log.Info("  Saved: %d%% (%s)", rec.Savings, display.FormatKB(rec.SavedKB()))
	if rec.Large {
		c.log.Large("  Image is still large (%s). Consider resizing.", display.FormatKB(rec.OptimizedKB))
	}
	return rec, OutcomeConverted, nil
}
