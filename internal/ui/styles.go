// Package ui holds terminal styles for interactive output.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders single-line headings and status lines. Styles are bound to
// the writer they print to, so pipes and buffers get plain text.
type Styles struct {
	Heading lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Muted   lipgloss.Style
}

// New returns styles for output written to w.
func New(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warn:    r.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   r.NewStyle().Faint(true),
	}
}
