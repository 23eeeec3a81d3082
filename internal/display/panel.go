package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/folio/internal/term"
)

// Field is one label/value line of a panel.
type Field struct {
	Label string
	Value string
}

// Panel renders a titled box of aligned label/value lines. Borders are
// always drawn; colors only when term colors are enabled.
func Panel(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}

	labelStyle := lipgloss.NewStyle().Width(width + 2)
	titleStyle := lipgloss.NewStyle()
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if term.Enabled() {
		labelStyle = labelStyle.Foreground(term.Fg(term.Blue))
		titleStyle = titleStyle.Bold(true).Foreground(term.Fg(term.Magenta))
		box = box.BorderForeground(term.Fg(term.Gray))
	}

	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f.Label+":")+f.Value)
	}
	return box.Render(strings.Join(lines, "\n"))
}
