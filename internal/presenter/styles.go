package presenter

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	name    lipgloss.Style
	passed  lipgloss.Style
	failed  lipgloss.Style
	tidied  lipgloss.Style
	dim     lipgloss.Style
	heading lipgloss.Style
}

// newStyles binds the styles to w. Without color every style renders its
// input unchanged.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
		plain := r.NewStyle()
		return styles{name: plain, passed: plain, failed: plain, tidied: plain, dim: plain, heading: plain}
	}
	return styles{
		name:    r.NewStyle().Bold(true),
		passed:  r.NewStyle().Foreground(lipgloss.Color("2")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("1")),
		tidied:  r.NewStyle().Foreground(lipgloss.Color("6")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}
