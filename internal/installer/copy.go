// ABOUTME: Copy strategy vendoring makefiles, scripts, and templates into the project root
// ABOUTME: Shallow-clones the resolved ref and writes the version pin

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"

	"github.com/JINWOO-J/universal-makefile/internal/log"
	"github.com/JINWOO-J/universal-makefile/internal/release"
)

// vendoredDirs are the source trees the copy mechanism places at the
// project root.
var vendoredDirs = []string{"makefiles", "scripts", "templates"}

type copyStrategy struct{ m *Manager }

func (s *copyStrategy) Name() Mechanism { return MechanismCopy }

func (s *copyStrategy) Check(ctx context.Context) error {
	if !s.m.git.Available() {
		return errors.New("the copy mechanism needs git on PATH to clone the source")
	}
	return nil
}

func (s *copyStrategy) Install(ctx context.Context) error {
	ref, err := s.m.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	cloneDir := filepath.Join(s.m.workDir, "source-clone")
	if err := os.RemoveAll(cloneDir); err != nil {
		return fmt.Errorf("clearing clone directory: %w", err)
	}
	if err := s.m.git.CloneShallow(ctx, s.m.cfg.RepoURL(), ref.Ref, cloneDir); err != nil {
		return fmt.Errorf("cloning %s at %s: %w", s.m.cfg.RepoURL(), ref.Ref, err)
	}

	for _, dir := range vendoredDirs {
		src := filepath.Join(cloneDir, dir)
		if !dirExists(src) {
			log.Debug("source has no directory to vendor", "dir", dir)
			continue
		}
		dst := filepath.Join(s.m.cfg.ProjectRoot, dir)
		// Wholesale replacement, stale files from older versions must not survive.
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("clearing %s: %w", dst, err)
		}
		if err := cp.Copy(src, dst); err != nil {
			return fmt.Errorf("vendoring %s: %w", dir, err)
		}
		log.Info("vendored", "dir", dir)
	}

	// The entry Makefile includes this from the project root in copy mode.
	universal := filepath.Join(cloneDir, "Makefile.universal")
	if fileExists(universal) {
		if err := cp.Copy(universal, filepath.Join(s.m.cfg.ProjectRoot, "Makefile.universal")); err != nil {
			return fmt.Errorf("vendoring Makefile.universal: %w", err)
		}
	}

	if err := release.WriteRefFile(s.m.cfg.PinPath(), ref.Ref); err != nil {
		return fmt.Errorf("writing version pin: %w", err)
	}
	log.Info("copy install complete", "ref", ref.String())
	return nil
}

// Update re-resolves and vendors the trees again.
func (s *copyStrategy) Update(ctx context.Context) error {
	return s.Install(ctx)
}

// Remove deletes the vendored makefiles directory. The scripts and
// templates trees may hold user edits, so they stay.
func (s *copyStrategy) Remove(ctx context.Context) error {
	return os.RemoveAll(s.m.cfg.CopyDirPath())
}
