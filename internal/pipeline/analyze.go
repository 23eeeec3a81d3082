package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/display"
	"github.com/backmassage/folio/internal/logging"
	"github.com/backmassage/folio/internal/naming"
	"github.com/backmassage/folio/internal/probe"
	"github.com/backmassage/folio/internal/term"
)

// InventoryRow is one probed image in an analysis.
type InventoryRow struct {
	Path          string
	Format        string
	Width         int
	Height        int
	SizeKB        int64
	BytesPerPixel float64
	HasWebP       bool
	Flag          string // "", "outlier" or "extreme"
}

// Inventory is the result of [Analyze].
type Inventory struct {
	Rows     []InventoryRow
	Skipped  int
	Bounds   iqrBounds
	Outliers int
	Extremes int
	Large    int // rows above cfg.WarnSizeKB
}

// Analyze discovers images under cfg.SourceDir, probes each one, and
// writes a table of format, dimensions, size, and bytes-per-pixel to w.
// Rows whose bytes-per-pixel fall outside the IQR fences are flagged as
// candidates that gain the most from conversion. Nothing is written to
// disk. The only error returned is a discovery failure.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger, w io.Writer) (*Inventory, error) {
	files, err := Discover(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("discover images in %s: %w", cfg.SourceDir, err)
	}
	inv := &Inventory{}
	if len(files) == 0 {
		log.Warn("No images found in %s", cfg.SourceDir)
		return inv, nil
	}
	log.Info("Analyzing %d images in %s", len(files), cfg.SourceDir)

	var bppVals []float64
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		info, err := probe.Probe(path)
		if err != nil {
			inv.Skipped++
			log.Warn("Skip (probe failed): %s", path)
			continue
		}
		row := InventoryRow{
			Path:          path,
			Format:        info.Format,
			Width:         info.Width,
			Height:        info.Height,
			SizeKB:        ToKB(info.Size),
			BytesPerPixel: info.BytesPerPixel(),
		}
		if out, ok := naming.OutputPath(path); ok {
			if _, err := os.Stat(out); err == nil {
				row.HasWebP = true
			}
		}
		if row.SizeKB > cfg.WarnSizeKB {
			inv.Large++
		}
		inv.Rows = append(inv.Rows, row)
		if row.BytesPerPixel > 0 {
			bppVals = append(bppVals, row.BytesPerPixel)
		}
	}

	if len(inv.Rows) == 0 {
		log.Warn("No images could be probed")
		return inv, nil
	}

	inv.Bounds = computeStats(bppVals)
	for i := range inv.Rows {
		r := &inv.Rows[i]
		r.Flag = inv.Bounds.classify(r.BytesPerPixel)
		switch r.Flag {
		case "extreme":
			inv.Extremes++
		case "outlier":
			inv.Outliers++
		}
	}

	fmt.Fprintln(w, renderInventory(cfg.SourceDir, inv.Rows))
	logInventorySummary(cfg, log, inv)
	return inv, nil
}

func renderInventory(root string, rows []InventoryRow) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.Path
		if rel, err := filepath.Rel(root, r.Path); err == nil {
			name = rel
		}
		webp := ""
		if r.HasWebP {
			webp = "yes"
		}
		data = append(data, []string{
			name,
			r.Format,
			display.FormatDimensions(r.Width, r.Height),
			display.FormatKB(r.SizeKB),
			strconv.FormatFloat(r.BytesPerPixel, 'f', 2, 64),
			webp,
			flagMarker(r.Flag),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("File", "Format", "Size", "Disk", "B/px", "WebP", "").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				if term.Enabled() {
					s = s.Bold(true)
				}
				return s
			}
			if !term.Enabled() || row < 0 || row >= len(rows) || col != 4 {
				return s
			}
			switch rows[row].Flag {
			case "extreme":
				return s.Foreground(term.Fg(term.Red))
			case "outlier":
				return s.Foreground(term.Fg(term.Orange))
			}
			return s
		})
	return t.String()
}

func logInventorySummary(cfg *config.Config, log *logging.Logger, inv *Inventory) {
	var totalKB int64
	for _, r := range inv.Rows {
		totalKB += r.SizeKB
	}
	log.Info("Analyzed %d images (%s on disk)", len(inv.Rows), display.FormatKB(totalKB))
	if inv.Skipped > 0 {
		log.Warn("  %d image(s) could not be probed", inv.Skipped)
	}
	if inv.Bounds.valid {
		log.Info("  Bytes/pixel IQR: %.2f - %.2f (outlier < %.2f or > %.2f)",
			inv.Bounds.q1, inv.Bounds.q3, inv.Bounds.outlierLo, inv.Bounds.outlierHi)
	}
	if inv.Large > 0 {
		log.Large("  %d image(s) above %s", inv.Large, display.FormatKB(cfg.WarnSizeKB))
	}
	if inv.Outliers > 0 {
		log.Large("  %d outlier(s) flagged [*]", inv.Outliers)
	}
	if inv.Extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", inv.Extremes)
	}
	if inv.Outliers == 0 && inv.Extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func flagMarker(flag string) string {
	switch flag {
	case "extreme":
		return "[!]"
	case "outlier":
		return "[*]"
	default:
		return ""
	}
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || v <= 0 {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
