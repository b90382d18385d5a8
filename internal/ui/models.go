// ABOUTME: Bubble Tea leaf models for the confirm and choose prompts
// ABOUTME: Value semantics throughout; Update returns the mutated copy

package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

type confirmModel struct {
	question string
	answer   bool
	done     bool
}

func newConfirmModel(question string, def bool) confirmModel {
	return confirmModel{question: question, answer: def}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	hint := "y/N"
	if m.answer {
		hint = "Y/n"
	}
	return fmt.Sprintf("%s %s ", questionStyle.Render(m.question), hintStyle.Render("["+hint+"]"))
}

type chooseModel struct {
	question  string
	options   []string
	cursor    int
	done      bool
	cancelled bool
}

func newChooseModel(question string, options []string) chooseModel {
	return chooseModel{question: question, options: options}
}

func (m chooseModel) Init() tea.Cmd { return nil }

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}

	// Digit keys select directly.
	if s := key.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if idx := int(s[0] - '1'); idx < len(m.options) {
			m.cursor = idx
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m chooseModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(questionStyle.Render(m.question))
	b.WriteByte('\n')
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteByte('\n')
	}
	b.WriteString(hintStyle.Render("↑/↓ move, enter select, esc cancel"))
	return b.String()
}
