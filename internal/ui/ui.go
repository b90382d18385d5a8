// ABOUTME: Interactive confirm and choose prompts with non-interactive fallbacks
// ABOUTME: Bubble Tea on a real terminal, plain Fscanln otherwise, --yes bypasses both

package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// Prompter asks the user questions on the terminal. The zero value is not
// usable; construct with New.
type Prompter struct {
	Yes bool
	In  io.Reader
	Out io.Writer

	// isTTY overrides terminal detection in tests.
	isTTY func() bool
}

// New returns a Prompter writing to stderr so prompts never mix with
// machine-readable stdout.
func New(yes bool) *Prompter {
	return &Prompter{Yes: yes, In: os.Stdin, Out: os.Stderr, isTTY: stdioIsTTY}
}

func stdioIsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool { return stdioIsTTY() }

// ProgressWriter returns the stream progress bars should draw on, or nil
// when stderr is not a terminal.
func ProgressWriter() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return os.Stderr
	}
	return nil
}

// Confirm asks a yes/no question and returns the answer. --yes answers
// true without asking; without a terminal the reply is read from In and
// EOF yields the default.
func (p *Prompter) Confirm(question string, def bool) bool {
	if p.Yes {
		return true
	}
	if p.tty() {
		if ans, err := p.confirmTea(question, def); err == nil {
			return ans
		}
		log.Debug("interactive prompt unavailable, falling back to plain input")
	}
	return p.confirmScan(question, def)
}

// Choose presents options and returns the selected index. --yes picks the
// first option.
func (p *Prompter) Choose(question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to choose from")
	}
	if p.Yes {
		log.Debug("choosing first option", "option", options[0])
		return 0, nil
	}
	if p.tty() {
		if idx, err := p.chooseTea(question, options); err == nil {
			return idx, nil
		}
		log.Debug("interactive prompt unavailable, falling back to plain input")
	}
	return p.chooseScan(question, options)
}

func (p *Prompter) tty() bool {
	return p.isTTY != nil && p.isTTY()
}

func (p *Prompter) confirmScan(question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.Out, "%s [%s]: ", question, hint)

	var answer string
	if _, err := fmt.Fscanln(p.In, &answer); err != nil {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

func (p *Prompter) chooseScan(question string, options []string) (int, error) {
	fmt.Fprintln(p.Out, question)
	for i, opt := range options {
		fmt.Fprintf(p.Out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprintf(p.Out, "Selection [1-%d]: ", len(options))

	var n int
	if _, err := fmt.Fscanln(p.In, &n); err != nil {
		return 0, fmt.Errorf("reading selection: %w", err)
	}
	if n < 1 || n > len(options) {
		return 0, fmt.Errorf("selection %d out of range 1-%d", n, len(options))
	}
	return n - 1, nil
}

func (p *Prompter) confirmTea(question string, def bool) (bool, error) {
	prog := tea.NewProgram(newConfirmModel(question, def),
		tea.WithInput(p.In), tea.WithOutput(p.Out))
	final, err := prog.Run()
	if err != nil {
		return false, fmt.Errorf("bubble tea: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, errors.New("unexpected prompt model")
	}
	return m.answer, nil
}

func (p *Prompter) chooseTea(question string, options []string) (int, error) {
	prog := tea.NewProgram(newChooseModel(question, options),
		tea.WithInput(p.In), tea.WithOutput(p.Out))
	final, err := prog.Run()
	if err != nil {
		return 0, fmt.Errorf("bubble tea: %w", err)
	}
	m, ok := final.(chooseModel)
	if !ok {
		return 0, errors.New("unexpected prompt model")
	}
	if m.cancelled {
		return 0, errors.New("selection cancelled")
	}
	return m.cursor, nil
}
