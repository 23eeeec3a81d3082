// Package report writes a JSON artifact describing one optimization run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/pipeline"
)

// Settings is the subset of the configuration that shaped the run.
type Settings struct {
	SourceDir    string `json:"source_dir"`
	Encoder      string `json:"encoder"`
	Quality      int    `json:"quality"`
	Method       int    `json:"method"`
	MaxWidth     int    `json:"max_width,omitempty"`
	WarnSizeKB   int64  `json:"warn_size_kb"`
	DryRun       bool   `json:"dry_run"`
	SkipExisting bool   `json:"skip_existing"`
}

// Totals mirrors the summary printed at the end of a run.
type Totals struct {
	Discovered     int   `json:"discovered"`
	Converted      int   `json:"converted"`
	Skipped        int   `json:"skipped"`
	Planned        int   `json:"planned"`
	Failed         int   `json:"failed"`
	OriginalKB     int64 `json:"original_kb"`
	OptimizedKB    int64 `json:"optimized_kb"`
	SavedKB        int64 `json:"saved_kb"`
	SavingsPercent int   `json:"savings_percent"`
}

// Report is the on-disk artifact.
type Report struct {
	ID          string             `json:"id"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Interrupted bool               `json:"interrupted"`
	Settings    Settings           `json:"settings"`
	Totals      Totals             `json:"totals"`
	Records     []*pipeline.Record `json:"records"`
	Failures    []pipeline.Failure `json:"failures"`
}

// New builds a report with a fresh run ID.
func New(cfg *config.Config, res *pipeline.Result) *Report {
	s := res.Stats
	r := &Report{
		ID:          uuid.NewString(),
		StartedAt:   res.StartedAt.UTC(),
		FinishedAt:  res.FinishedAt.UTC(),
		Interrupted: res.Interrupted(),
		Settings: Settings{
			SourceDir:    cfg.SourceDir,
			Encoder:      string(cfg.Encoder),
			Quality:      cfg.Quality,
			Method:       cfg.Method,
			MaxWidth:     cfg.MaxWidth,
			WarnSizeKB:   cfg.WarnSizeKB,
			DryRun:       cfg.DryRun,
			SkipExisting: cfg.SkipExisting,
		},
		Totals: Totals{
			Discovered:     s.Total,
			Converted:      s.Converted,
			Skipped:        s.Skipped,
			Planned:        s.Planned,
			Failed:         s.Failed,
			OriginalKB:     s.TotalOriginalKB,
			OptimizedKB:    s.TotalOptimizedKB,
			SavedKB:        s.SavedKB(),
			SavingsPercent: s.SavingsPercent(),
		},
		Records:  res.Records,
		Failures: res.Failures,
	}
	if r.Records == nil {
		r.Records = []*pipeline.Record{}
	}
	if r.Failures == nil {
		r.Failures = []pipeline.Failure{}
	}
	return r
}

// Write stores r at path as indented JSON. The file is written to a
// temporary sibling first and renamed into place, so readers never see a
// partial report.
func Write(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report mkdir: %w", err)
	}

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report marshal: %w", err)
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("report write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("report rename %s: %w", path, err)
	}
	return nil
}

// Read loads a report previously written by Write.
func Read(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("report parse %s: %w", path, err)
	}
	return &r, nil
}
