// ABOUTME: Submodule strategy tracking upstream as a git submodule at the install path
// ABOUTME: Updates fast-forward only; --force hard-resets, never a silent merge

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

type submoduleStrategy struct{ m *Manager }

func (s *submoduleStrategy) Name() Mechanism { return MechanismSubmodule }

func (s *submoduleStrategy) Check(ctx context.Context) error {
	if !s.m.git.Available() {
		return errors.New("the submodule mechanism needs git on PATH")
	}
	if !s.m.git.IsWorkTree(s.m.cfg.ProjectRoot) {
		return errors.New("the submodule mechanism needs the project to be a git repository; run 'git init' first or choose --release")
	}
	return nil
}

func (s *submoduleStrategy) Install(ctx context.Context) error {
	root := s.m.cfg.ProjectRoot
	path := s.m.cfg.InstallDir
	url := s.m.cfg.RepoURL()

	err := s.m.git.SubmoduleAdd(ctx, root, url, path)
	if err == nil {
		log.Info("submodule added", "path", path)
		return nil
	}
	if !strings.Contains(err.Error(), "already exists") {
		return err
	}
	if !s.m.cfg.Force {
		return fmt.Errorf("submodule %s already exists; re-run with --force to replace it", path)
	}

	log.Warn("replacing existing submodule", "path", path)
	s.teardown(ctx)
	if err := s.m.git.SubmoduleAdd(ctx, root, url, path); err != nil {
		return fmt.Errorf("re-adding submodule after cleanup: %w", err)
	}
	log.Info("submodule replaced", "path", path)
	return nil
}

// Update fetches upstream and fast-forwards the submodule checkout. Force
// hard-resets instead; divergence without Force aborts with the escape
// hatch spelled out.
func (s *submoduleStrategy) Update(ctx context.Context) error {
	path := s.m.cfg.InstallPath()
	target := "origin/" + s.m.cfg.Branch

	if err := s.m.git.Fetch(ctx, path); err != nil {
		return fmt.Errorf("fetching submodule upstream: %w", err)
	}

	if s.m.cfg.Force {
		log.Warn("hard-resetting submodule to upstream", "target", target)
		return s.m.git.ResetHard(ctx, path, target)
	}

	if err := s.m.git.MergeFFOnly(ctx, path, target); err != nil {
		return fmt.Errorf("%w: re-run with --force to hard-reset, or inspect with: git -C %s log HEAD..%s (%v)",
			ErrDiverged, s.m.cfg.InstallDir, target, err)
	}
	log.Info("submodule fast-forwarded", "target", target)
	return nil
}

func (s *submoduleStrategy) Remove(ctx context.Context) error {
	s.teardown(ctx)
	return nil
}

// teardown unwinds a submodule registration step by step. Partial states
// are common, so each step is attempted even when a previous one failed.
func (s *submoduleStrategy) teardown(ctx context.Context) {
	root := s.m.cfg.ProjectRoot
	path := s.m.cfg.InstallDir

	if err := s.m.git.SubmoduleDeinit(ctx, root, path); err != nil {
		log.Debug("submodule deinit", "error", err)
	}
	if err := s.m.git.Rm(ctx, root, path); err != nil {
		log.Debug("git rm", "error", err)
		// Not tracked; fall back to removing the checkout directly.
		if err := os.RemoveAll(s.m.cfg.InstallPath()); err != nil {
			log.Warn("could not remove submodule checkout", "path", path, "error", err)
		}
	}
	if gitDir, err := s.m.git.GitDir(root); err == nil {
		modules := filepath.Join(gitDir, "modules", path)
		if err := os.RemoveAll(modules); err != nil {
			log.Warn("could not remove submodule metadata", "path", modules, "error", err)
		}
	}
}
