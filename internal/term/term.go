// Package term owns the color decision for console output. [Configure]
// resolves the mode once at startup and pins the lipgloss color profile, so
// every lipgloss render (log tags, banner, panels, tables) agrees on whether
// to emit escape sequences, even when writing to a buffer.
package term

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/backmassage/folio/internal/config"
)

// Color is an ANSI 256 palette index understood by lipgloss.
type Color string

// Palette used across the console output.
const (
	Red     Color = "9"
	Green   Color = "10"
	Yellow  Color = "11"
	Blue    Color = "12"
	Magenta Color = "13"
	Cyan    Color = "14"
	Orange  Color = "208"
	Gray    Color = "8"
)

var enabled bool

// Configure resolves mode and sets the lipgloss color profile accordingly.
func Configure(mode config.ColorMode) {
	enabled = resolve(mode)
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Enabled reports whether colors are currently active.
func Enabled() bool { return enabled }

// Fg returns a lipgloss color for c.
func Fg(c Color) lipgloss.Color { return lipgloss.Color(c) }

// Paint renders s bold in color c, or returns s unchanged when colors are off.
func Paint(c Color, s string) string {
	if !enabled || c == "" {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Foreground(Fg(c)).Render(s)
}

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
