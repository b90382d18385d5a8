// ABOUTME: Subtree strategy merging upstream squashed under the install prefix
// ABOUTME: Initial add needs a clean work tree; updates are subtree pulls

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

type subtreeStrategy struct{ m *Manager }

func (s *subtreeStrategy) Name() Mechanism { return MechanismSubtree }

func (s *subtreeStrategy) Check(ctx context.Context) error {
	if !s.m.git.Available() {
		return errors.New("the subtree mechanism needs git on PATH")
	}
	root := s.m.cfg.ProjectRoot
	if !s.m.git.IsWorkTree(root) {
		return errors.New("the subtree mechanism needs the project to be a git repository; run 'git init' first or choose --release")
	}
	// git subtree add refuses to run on a dirty tree.
	if !s.m.git.HasSubtree(root, s.m.cfg.InstallDir) {
		dirty, err := s.m.git.IsDirty(root)
		if err != nil {
			return fmt.Errorf("checking work tree state: %w", err)
		}
		if dirty {
			return errors.New("the work tree has uncommitted changes; commit or stash them before the initial subtree add")
		}
	}
	return nil
}

func (s *subtreeStrategy) Install(ctx context.Context) error {
	root := s.m.cfg.ProjectRoot
	prefix := s.m.cfg.InstallDir
	url := s.m.cfg.RepoURL()
	branch := s.m.cfg.Branch

	if s.m.git.HasSubtree(root, prefix) {
		log.Info("subtree already present, pulling instead", "prefix", prefix)
		return s.m.git.SubtreePull(ctx, root, prefix, url, branch)
	}
	if err := s.m.git.SubtreeAdd(ctx, root, prefix, url, branch); err != nil {
		return fmt.Errorf("adding subtree: %w", err)
	}
	log.Info("subtree added", "prefix", prefix, "branch", branch)
	return nil
}

func (s *subtreeStrategy) Update(ctx context.Context) error {
	if err := s.m.git.SubtreePull(ctx, s.m.cfg.ProjectRoot, s.m.cfg.InstallDir, s.m.cfg.RepoURL(), s.m.cfg.Branch); err != nil {
		return fmt.Errorf("pulling subtree: %w", err)
	}
	log.Info("subtree updated", "prefix", s.m.cfg.InstallDir)
	return nil
}

// Remove drops the subtree prefix from the index and working tree. The
// squashed history stays, only the directory goes.
func (s *subtreeStrategy) Remove(ctx context.Context) error {
	if err := s.m.git.RmRecursive(ctx, s.m.cfg.ProjectRoot, s.m.cfg.InstallDir); err != nil {
		log.Debug("git rm -r", "error", err)
		return os.RemoveAll(s.m.cfg.InstallPath())
	}
	return nil
}
