// ABOUTME: Uninstall flow: detect, enumerate the removal set, confirm, remove
// ABOUTME: Dry-run prints would-remove lines and touches nothing; backup copies trees aside

package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cp "github.com/otiai10/copy"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// Uninstall removes the detected installation. Scaffolded project files and
// the .gitignore block always stay; pins go only with RemovePins.
func (m *Manager) Uninstall(ctx context.Context) error {
	mech, err := m.Detect(ctx)
	if err != nil {
		return err
	}

	targets := m.removalSet(mech)

	if m.cfg.DryRun {
		for _, t := range targets {
			fmt.Fprintf(m.out, "would remove %s\n", m.displayPath(t))
		}
		return nil
	}

	if !m.cfg.Yes && !m.cfg.Force && m.prompt != nil {
		q := fmt.Sprintf("Remove the universal makefile system (installed via %s)?", mech)
		if !m.prompt.Confirm(q, false) {
			log.Info("uninstall cancelled")
			return nil
		}
	}

	if m.cfg.Backup {
		for _, t := range targets {
			backup := fmt.Sprintf("%s.bak.%d", t, time.Now().UnixNano())
			if err := cp.Copy(t, backup); err != nil {
				return fmt.Errorf("backing up %s: %w", m.displayPath(t), err)
			}
			log.Info("backed up", "path", m.displayPath(backup))
		}
	}

	s := m.strategies[mech]
	if err := s.Remove(ctx); err != nil {
		return fmt.Errorf("removing %s install: %w", mech, err)
	}

	if err := os.Remove(m.cfg.ReleaseMarkerPath()); err != nil && !os.IsNotExist(err) {
		log.Warn("could not remove release marker", "error", err)
	}
	if m.cfg.RemovePins {
		if err := os.Remove(m.cfg.PinPath()); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove version pin", "error", err)
		}
	}

	log.Info("uninstalled", "mechanism", mech.String())
	return nil
}

// removalSet lists the existing paths an uninstall would take away.
func (m *Manager) removalSet(mech Mechanism) []string {
	var targets []string
	add := func(path string) {
		if _, err := os.Lstat(path); err == nil {
			targets = append(targets, path)
		}
	}

	switch mech {
	case MechanismCopy:
		add(m.cfg.CopyDirPath())
	default:
		add(m.cfg.InstallPath())
	}
	add(m.cfg.ReleaseMarkerPath())
	if m.cfg.RemovePins {
		add(m.cfg.PinPath())
	}
	return targets
}

func (m *Manager) displayPath(path string) string {
	if rel, err := filepath.Rel(m.cfg.ProjectRoot, path); err == nil {
		return rel
	}
	return path
}
