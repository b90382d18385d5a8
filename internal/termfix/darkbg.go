// ABOUTME: Pre-sets lipgloss dark background before BubbleTea's init() sends OSC queries
// ABOUTME: Must be imported (with _) before any package that imports bubbletea

package termfix

import "github.com/charmbracelet/lipgloss"

func init() {
	// Tell lipgloss the background is dark so it never sends OSC 10/11
	// terminal queries. BubbleTea's init() calls
	// lipgloss.HasDarkBackground(); with an explicit background set, the
	// sync.Once that fires the query is skipped. Without this, the async
	// query response lands in the middle of the first confirm prompt.
	//
	// This package must NOT import bubbletea (directly or transitively)
	// so that Go's init order guarantees this runs first.
	lipgloss.SetHasDarkBackground(true)
}
