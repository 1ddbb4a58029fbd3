package reporter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Style selects how status markers are laid out.
type Style string

const (
	// StyleOpenRC prints "* message" with the status bracket on the right.
	StyleOpenRC Style = "openrc"
	// StyleSystemd prints "[ OK ] message".
	StyleSystemd Style = "systemd"
)

// ParseStyle maps a config value to a Style. Empty means openrc.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleOpenRC:
		return StyleOpenRC, nil
	case StyleSystemd:
		return StyleSystemd, nil
	}
	return "", fmt.Errorf("unknown style %q (want openrc or systemd)", s)
}

// statusWidth is the visible width of "[ ok ]", "[ !! ]" and spinner frames.
const statusWidth = 6

type palette struct {
	bracket lipgloss.Style
	ok      lipgloss.Style
	ko      lipgloss.Style
	spin    lipgloss.Style
	text    lipgloss.Style
	dim     lipgloss.Style
	header  lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	return palette{
		bracket: r.NewStyle().Foreground(lipgloss.Color("4")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		ko:      r.NewStyle().Foreground(lipgloss.Color("1")),
		spin:    r.NewStyle().Foreground(lipgloss.Color("2")),
		text:    r.NewStyle().Foreground(lipgloss.Color("15")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
		header:  r.NewStyle().Bold(true),
	}
}

// bracketed renders "[ inner ]" with blue brackets.
func (p palette) bracketed(inner string, s lipgloss.Style) string {
	return p.bracket.Render("[") + s.Render(" "+inner+" ") + p.bracket.Render("]")
}
