package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/folio/internal/term"
)

const bannerArt = `  __       _ _
 / _| ___ | (_) ___
| |_ / _ \| | |/ _ \
|  _| (_) | | | (_) |
|_|  \___/|_|_|\___/`

// PrintBanner writes the ASCII art banner to w, bold magenta when colors
// are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, BannerStyle().Render(bannerArt))
}

// BannerStyle returns the banner style for the current color state.
func BannerStyle() lipgloss.Style {
	s := lipgloss.NewStyle()
	if term.Enabled() {
		s = s.Bold(true).Foreground(term.Fg(term.Magenta))
	}
	return s
}
