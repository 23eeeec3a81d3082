package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoSettingsFile is returned by LoadFile when path does not exist.
var ErrNoSettingsFile = errors.New("settings file not found")

// fileSettings is the YAML wire shape of a settings file. Pointer fields
// distinguish "absent" from zero so that only keys present in the file
// override the defaults.
type fileSettings struct {
	Source       *string `yaml:"source"`
	Dist         *string `yaml:"dist"`
	Encoder      *string `yaml:"encoder"`
	Quality      *int    `yaml:"quality"`
	Method       *int    `yaml:"method"`
	MaxWidth     *int    `yaml:"max_width"`
	WarnSizeKB   *int64  `yaml:"warn_size_kb"`
	Report       *string `yaml:"report"`
	SkipExisting *bool   `yaml:"skip_existing"`
	Addr         *string `yaml:"addr"`
	DebounceMS   *int    `yaml:"debounce_ms"`
	Color        *string `yaml:"color"`
	Log          *string `yaml:"log"`
}

// LoadFile reads a YAML settings file and overlays the keys it contains
// onto cfg. Unknown keys are rejected so typos surface early.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoSettingsFile, path)
		}
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	return Overlay(b, cfg)
}

// Overlay decodes YAML settings from b and applies them to cfg.
func Overlay(b []byte, cfg *Config) error {
	var fsx fileSettings
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fsx); err != nil {
		// An empty document is a valid "no overrides" file.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse settings: %w", err)
	}

	if fsx.Source != nil {
		cfg.SourceDir = NormalizeDirArg(*fsx.Source)
	}
	if fsx.Dist != nil {
		cfg.DistDir = NormalizeDirArg(*fsx.Dist)
	}
	if fsx.Encoder != nil {
		e, err := ParseEncoder(*fsx.Encoder)
		if err != nil {
			return err
		}
		cfg.Encoder = e
	}
	if fsx.Quality != nil {
		cfg.Quality = *fsx.Quality
	}
	if fsx.Method != nil {
		cfg.Method = *fsx.Method
	}
	if fsx.MaxWidth != nil {
		cfg.MaxWidth = *fsx.MaxWidth
	}
	if fsx.WarnSizeKB != nil {
		cfg.WarnSizeKB = *fsx.WarnSizeKB
	}
	if fsx.Report != nil {
		cfg.ReportPath = *fsx.Report
	}
	if fsx.SkipExisting != nil {
		cfg.SkipExisting = *fsx.SkipExisting
	}
	if fsx.Addr != nil {
		cfg.Addr = *fsx.Addr
	}
	if fsx.DebounceMS != nil {
		cfg.DebounceMS = *fsx.DebounceMS
	}
	if fsx.Color != nil {
		m, err := ParseColorMode(*fsx.Color)
		if err != nil {
			return err
		}
		cfg.ColorMode = m
	}
	if fsx.Log != nil {
		cfg.LogFile = *fsx.Log
	}
	return nil
}
