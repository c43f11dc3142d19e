package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styleSet holds the lipgloss styles the transcript uses. Styles are bound
// to the output writer, so color degrades to plain text automatically when
// the sink is not a terminal.
type styleSet struct {
	dim  lipgloss.Style
	bold lipgloss.Style
	err  lipgloss.Style
	add  lipgloss.Style
	del  lipgloss.Style
}

func newStyleSet(w io.Writer) styleSet {
	r := lipgloss.NewRenderer(w)
	return styleSet{
		dim:  r.NewStyle().Foreground(lipgloss.Color("240")),
		bold: r.NewStyle().Bold(true),
		err:  r.NewStyle().Foreground(lipgloss.Color("9")),
		add:  r.NewStyle().Foreground(lipgloss.Color("10")),
		del:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}
