// ABOUTME: README rendering for example templates
// ABOUTME: Terminal markdown via glamour with a raw-text fallback

package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
)

const readmeWrap = 80

// Readme returns the example's README rendered for the terminal, or ""
// when the example ships none. Rendering errors fall back to the raw
// markdown; a missing README is not an error.
func Readme(ex Example) (string, error) {
	raw, err := os.ReadFile(filepath.Join(ex.Dir, "README.md"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(readmeWrap),
	)
	if err != nil {
		return string(raw), nil
	}
	rendered, err := r.Render(string(raw))
	if err != nil {
		return string(raw), nil
	}
	return strings.TrimRight(rendered, "\n ") + "\n", nil
}
