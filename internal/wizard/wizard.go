// Package wizard implements the interactive prompt behind `tux init`.
package wizard

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	checkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type step int

const (
	stepOverwrite step = iota
	stepLanguages
	stepStrict
	stepDone
)

// Options seeds the prompt.
type Options struct {
	// Existing is the path of a config file that would be replaced; the user
	// must confirm before anything else is asked.
	Existing string
	Selected []string
	Strict   bool
}

// Result is what the user chose.
type Result struct {
	Languages []string
	Strict    bool
	Cancelled bool
}

// Model is the bubbletea model of the init prompt.
type Model struct {
	choices  []string
	selected map[int]bool
	cursor   int
	strict   bool
	existing string
	step     step
	warning  string
	quit     bool
}

// New creates a prompt offering choices.
func New(choices []string, opts Options) Model {
	m := Model{
		choices:  choices,
		selected: make(map[int]bool),
		strict:   opts.Strict,
		existing: opts.Existing,
		step:     stepLanguages,
	}
	if opts.Existing != "" {
		m.step = stepOverwrite
	}
	for i, c := range choices {
		for _, s := range opts.Selected {
			if strings.EqualFold(c, s) {
				m.selected[i] = true
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.quit = true
		return m, tea.Quit
	}

	switch m.step {
	case stepOverwrite:
		switch key.String() {
		case "y", "Y":
			m.step = stepLanguages
		case "n", "N", "enter":
			m.quit = true
			return m, tea.Quit
		}

	case stepLanguages:
		m.warning = ""
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case " ", "x":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			all := len(m.Languages()) == len(m.choices)
			for i := range m.choices {
				m.selected[i] = !all
			}
		case "enter":
			if len(m.Languages()) == 0 {
				m.warning = "select at least one language"
				return m, nil
			}
			m.step = stepStrict
		}

	case stepStrict:
		switch key.String() {
		case "y", "Y":
			m.strict = true
			m.step = stepDone
		case "n", "N":
			m.strict = false
			m.step = stepDone
		case "left", "right", "tab", "h", "l":
			m.strict = !m.strict
		case "enter":
			m.step = stepDone
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

// Languages returns the selected choices in display order.
func (m Model) Languages() []string {
	var out []string
	for i, c := range m.choices {
		if m.selected[i] {
			out = append(out, c)
		}
	}
	return out
}

// Result reports the outcome once the program has exited.
func (m Model) Result() Result {
	if m.quit || m.step != stepDone {
		return Result{Cancelled: true}
	}
	return Result{Languages: m.Languages(), Strict: m.strict}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	switch m.step {
	case stepOverwrite:
		fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(m.existing+" already exists. Replace it?"))
		b.WriteString(helpStyle.Render("y replace • n keep"))
		b.WriteString("\n")

	case stepLanguages:
		b.WriteString(titleStyle.Render("Which languages should tux check?"))
		b.WriteString("\n\n")
		for i, c := range m.choices {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
			}
			box := "[ ]"
			if m.selected[i] {
				box = checkStyle.Render("[x]")
			}
			fmt.Fprintf(&b, "%s%s %s\n", cursor, box, c)
		}
		if m.warning != "" {
			fmt.Fprintf(&b, "\n%s\n", warnStyle.Render(m.warning))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ move • space toggle • a all • enter confirm • q quit"))
		b.WriteString("\n")

	case stepStrict:
		b.WriteString(titleStyle.Render("Stop at the first failing check (strict mode)?"))
		b.WriteString("\n\n")
		yes, no := "  yes", "  no"
		if m.strict {
			yes = cursorStyle.Render("> yes")
		} else {
			no = cursorStyle.Render("> no")
		}
		fmt.Fprintf(&b, "%s   %s\n\n", yes, no)
		b.WriteString(helpStyle.Render("y/n choose • ←/→ toggle • enter confirm"))
		b.WriteString("\n")
	}

	return b.String()
}

// Run shows the prompt on out, reading keys from in.
func Run(ctx context.Context, in io.Reader, out io.Writer, choices []string, opts Options) (Result, error) {
	p := tea.NewProgram(New(choices, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("init prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("init prompt: unexpected model %T", final)
	}
	return m.Result(), nil
}
