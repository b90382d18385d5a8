// ABOUTME: Marker-based detection of the active install mechanism
// ABOUTME: Priority submodule, subtree, release, copy; first match wins

package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// Detect identifies the active install mechanism from its markers. With no
// markers it returns ErrNotInstalled; with markers from more than one
// mechanism the highest-priority one wins and the rest are reported.
func (m *Manager) Detect(ctx context.Context) (Mechanism, error) {
	found := m.markerScan(ctx)
	if len(found) == 0 {
		return MechanismNone, fmt.Errorf("%w; run 'umf install'", ErrNotInstalled)
	}
	if len(found) > 1 {
		extra := make([]string, 0, len(found)-1)
		for _, mech := range found[1:] {
			extra = append(extra, mech.String())
		}
		log.Warn("markers from multiple install mechanisms present",
			"using", found[0].String(), "ignoring", extra)
	}
	return found[0], nil
}

// markerScan collects matching mechanisms in priority order. A submodule or
// subtree checkout also contains the vendored tree a release install would
// leave, so the release marker only counts when nothing git-managed claimed
// the install path.
func (m *Manager) markerScan(ctx context.Context) []Mechanism {
	var found []Mechanism
	root := m.cfg.ProjectRoot

	if m.git.Available() && m.git.IsWorkTree(root) {
		if m.git.HasSubmodule(root, m.cfg.InstallDir) {
			found = append(found, MechanismSubmodule)
		}
		if m.git.HasSubtree(root, m.cfg.InstallDir) {
			found = append(found, MechanismSubtree)
		}
	}

	if len(found) == 0 {
		if fileExists(m.cfg.StampPath()) || dirExists(filepath.Join(m.cfg.InstallPath(), "makefiles")) {
			found = append(found, MechanismRelease)
		}
	}

	if dirExists(m.cfg.CopyDirPath()) {
		found = append(found, MechanismCopy)
	}
	return found
}
