// Package config holds runtime configuration: defaults, flag binding, the
// optional YAML settings file, and validation. With no flags and no file,
// folio converts ./public at quality 80 and warns above 500 KB.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// EncoderBackend selects how WebP files are produced.
type EncoderBackend string

const (
	EncoderNative EncoderBackend = "native" // In-process libwebp via gen2brain/webp (default).
	EncoderCwebp  EncoderBackend = "cwebp"  // External cwebp binary.
	EncoderFFmpeg EncoderBackend = "ffmpeg" // External ffmpeg with libwebp.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Quality and method bounds accepted by every backend.
const (
	QualityMin = 0
	QualityMax = 100
	MethodMin  = 0
	MethodMax  = 6
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], then mutated by flag parsing before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	SourceDir string // Default: "./public".
	DistDir   string // Default: "./dist" (serve).

	// Encoding.
	Encoder  EncoderBackend // Default: "native".
	Quality  int            // Default: 80.
	Method   int            // Default: 4 (libwebp speed/size trade-off).
	MaxWidth int            // Default: 0 (no resize).

	// Reporting.
	WarnSizeKB int64  // Default: 500. Advisory only.
	ReportPath string // Optional JSON run report.

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Default: false (existing .webp files are overwritten).

	// Server.
	Addr string // Default: ":5173".

	// Watcher.
	DebounceMS int // Default: 300.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with default values: ./public, quality 80,
// 500 KB warning threshold, native encoder.
func DefaultConfig() Config {
	return Config{
		SourceDir:    "./public",
		DistDir:      "./dist",
		Encoder:      EncoderNative,
		Quality:      80,
		Method:       4,
		MaxWidth:     0,
		WarnSizeKB:   500,
		DryRun:       false,
		SkipExisting: false,
		Addr:         ":5173",
		DebounceMS:   300,
		Verbose:      false,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges.
func (c *Config) Validate() error {
	switch c.Encoder {
	case EncoderNative, EncoderCwebp, EncoderFFmpeg:
		// valid
	default:
		return errors.New("invalid encoder (use 'native', 'cwebp' or 'ffmpeg')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Quality < QualityMin || c.Quality > QualityMax {
		return fmt.Errorf("quality must be between %d and %d (got %d)", QualityMin, QualityMax, c.Quality)
	}
	if c.Method < MethodMin || c.Method > MethodMax {
		return fmt.Errorf("method must be between %d and %d (got %d)", MethodMin, MethodMax, c.Method)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max width must not be negative (got %d)", c.MaxWidth)
	}
	if c.WarnSizeKB < 0 {
		return fmt.Errorf("warning threshold must not be negative (got %d)", c.WarnSizeKB)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce must not be negative (got %d)", c.DebounceMS)
	}
	if c.SourceDir == "" {
		return errors.New("need a source directory")
	}
	return nil
}
