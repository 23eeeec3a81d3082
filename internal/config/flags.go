package config

// This file binds Config fields to pflag flag sets (cobra's flag library)
// and implements the precedence rule: explicit flag > settings file > default.
// Flags are bound directly to Config fields; once the settings file has
// been loaded, [ApplyChanged] copies back only the flags the user passed.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// fieldCopiers maps a long flag name to a copy of the Config field it sets.
// Every flag registered below must have an entry here.
var fieldCopiers = map[string]func(dst, src *Config){
	"encoder":       func(d, s *Config) { d.Encoder = s.Encoder },
	"quality":       func(d, s *Config) { d.Quality = s.Quality },
	"method":        func(d, s *Config) { d.Method = s.Method },
	"max-width":     func(d, s *Config) { d.MaxWidth = s.MaxWidth },
	"warn-size":     func(d, s *Config) { d.WarnSizeKB = s.WarnSizeKB },
	"report":        func(d, s *Config) { d.ReportPath = s.ReportPath },
	"dry-run":       func(d, s *Config) { d.DryRun = s.DryRun },
	"skip-existing": func(d, s *Config) { d.SkipExisting = s.SkipExisting },
	"addr":          func(d, s *Config) { d.Addr = s.Addr },
	"debounce":      func(d, s *Config) { d.DebounceMS = s.DebounceMS },
	"verbose":       func(d, s *Config) { d.Verbose = s.Verbose },
	"color":         func(d, s *Config) { d.ColorMode = s.ColorMode },
	"log":           func(d, s *Config) { d.LogFile = s.LogFile },
	"no-color": func(d, s *Config) {
		// --no-color=false is a no-op rather than a reset to auto.
		if s.ColorMode == ColorNever {
			d.ColorMode = ColorNever
		}
	},
}

// BindGlobalFlags registers display and logging flags shared by every
// subcommand. configPath receives the --config value.
func BindGlobalFlags(fs *pflag.FlagSet, cfg *Config, configPath *string) {
	fs.StringVar(configPath, "config", "", "YAML settings file (flags override it)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color output: auto | always | never")
	fs.Lookup("color").NoOptDefVal = string(ColorAlways)
	fs.Var(&noColorValue{&cfg.ColorMode}, "no-color", "Disable colored logs")
	fs.Lookup("no-color").NoOptDefVal = "true"
}

// BindEncodeFlags registers the encoder flags used by optimize and watch.
func BindEncodeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Var(&encoderValue{&cfg.Encoder}, "encoder", "WebP backend: native | cwebp | ffmpeg")
	fs.IntVarP(&cfg.Quality, "quality", "q", cfg.Quality, "WebP quality (0-100)")
	fs.IntVar(&cfg.Method, "method", cfg.Method, "Compression effort (0 fast - 6 small)")
	fs.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "Downscale images wider than this (0 = keep size)")
	fs.Int64Var(&cfg.WarnSizeKB, "warn-size", cfg.WarnSizeKB, "Warn when an optimized image is still larger than this many KB")
}

// BindOptimizeFlags registers batch-only flags.
func BindOptimizeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", cfg.DryRun, "Preview only; do not write .webp files")
	fs.BoolVar(&cfg.SkipExisting, "skip-existing", cfg.SkipExisting, "Keep existing .webp siblings")
	fs.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "Write a JSON run report to this path")
}

// BindServeFlags registers static server flags.
func BindServeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
}

// BindWatchFlags registers watcher flags.
func BindWatchFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.DebounceMS, "debounce", cfg.DebounceMS, "Milliseconds to wait for writes to settle")
}

// ApplyChanged copies into dst every field whose flag was explicitly set
// on fs, reading the parsed value from src. Used after the settings file
// has been applied to dst so that flags keep the highest precedence.
func ApplyChanged(fs *pflag.FlagSet, dst, src *Config) {
	fs.Visit(func(f *pflag.Flag) {
		if cp, ok := fieldCopiers[f.Name]; ok {
			cp(dst, src)
		}
	})
}

// pflag.Value adapters so we can use enum types with fs.Var.

type encoderValue struct{ p *EncoderBackend }

func (e *encoderValue) String() string { return string(*e.p) }
func (e *encoderValue) Type() string   { return "backend" }
func (e *encoderValue) Set(s string) error {
	v, err := ParseEncoder(s)
	if err != nil {
		return err
	}
	*e.p = v
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	v, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*c.p = v
	return nil
}

// noColorValue is a boolean-looking flag that writes ColorNever.
type noColorValue struct{ p *ColorMode }

func (n *noColorValue) String() string   { return "false" }
func (n *noColorValue) Type() string     { return "bool" }
func (n *noColorValue) IsBoolFlag() bool { return true }
func (n *noColorValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "true", "1":
		*n.p = ColorNever
	case "false", "0":
		// leave as is
	default:
		return fmt.Errorf("invalid --no-color value %q", s)
	}
	return nil
}

// ParseEncoder converts a case-insensitive backend name.
func ParseEncoder(s string) (EncoderBackend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native":
		return EncoderNative, nil
	case "cwebp":
		return EncoderCwebp, nil
	case "ffmpeg":
		return EncoderFFmpeg, nil
	default:
		return "", fmt.Errorf("invalid encoder %q (use 'native', 'cwebp' or 'ffmpeg')", s)
	}
}

// ParseColorMode converts a case-insensitive color mode name.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
}
