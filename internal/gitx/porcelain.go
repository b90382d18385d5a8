// ABOUTME: Git porcelain helpers for clone, submodule, and subtree management
// ABOUTME: Thin wrappers over Run shaping the exact commands the installer issues

package gitx

import (
	"context"
	"path/filepath"
	"strings"
)

// CloneShallow clones url at ref into dir with depth 1. An empty ref means
// the remote's default branch.
func (g *Git) CloneShallow(ctx context.Context, url, ref, dir string) error {
	args := []string{"clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dir)
	_, err := g.Run(ctx, "", args...)
	return err
}

// GitDir returns the repository's .git directory, resolved to an absolute
// path. For submodules this points into the superproject's .git/modules tree.
func (g *Git) GitDir(dir string) (string, error) {
	out, err := g.query(dir, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	return filepath.Clean(out), nil
}

// HasSubmodule reports whether the repository at dir declares a submodule at
// path and its working tree checks out.
func (g *Git) HasSubmodule(dir, path string) bool {
	out, err := g.query(dir, "config", "--file", ".gitmodules", "--get-regexp", `\.path$`)
	if err != nil {
		return false
	}
	found := false
	for _, line := range strings.Split(out, "\n") {
		if _, val, ok := strings.Cut(strings.TrimSpace(line), " "); ok && val == path {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	_, err = g.query(dir, "submodule", "status", "--", path)
	return err == nil
}

// SubmoduleAdd registers and checks out a submodule at path.
func (g *Git) SubmoduleAdd(ctx context.Context, dir, url, path string) error {
	_, err := g.Run(ctx, dir, "submodule", "add", url, path)
	return err
}

// SubmoduleDeinit unregisters the submodule at path, discarding its working
// tree.
func (g *Git) SubmoduleDeinit(ctx context.Context, dir, path string) error {
	_, err := g.Run(ctx, dir, "submodule", "deinit", "-f", "--", path)
	return err
}

// Rm removes path from the index and working tree.
func (g *Git) Rm(ctx context.Context, dir, path string) error {
	_, err := g.Run(ctx, dir, "rm", "-f", path)
	return err
}

// RmRecursive removes a directory tree from the index and working tree.
func (g *Git) RmRecursive(ctx context.Context, dir, path string) error {
	_, err := g.Run(ctx, dir, "rm", "-r", "-f", path)
	return err
}

// HasSubtree reports whether a squashed subtree was ever added at prefix,
// going by the git-subtree-dir trailer its merge commits carry.
func (g *Git) HasSubtree(dir, prefix string) bool {
	out, err := g.query(dir, "log", "--grep", "git-subtree-dir: "+prefix, "--oneline", "-1")
	return err == nil && out != ""
}

// SubtreeAdd imports url's branch under prefix, squashed to one commit.
func (g *Git) SubtreeAdd(ctx context.Context, dir, prefix, url, branch string) error {
	_, err := g.Run(ctx, dir, "subtree", "add", "--prefix", prefix, url, branch, "--squash")
	return err
}

// SubtreePull merges upstream changes into the subtree at prefix.
func (g *Git) SubtreePull(ctx context.Context, dir, prefix, url, branch string) error {
	_, err := g.Run(ctx, dir, "subtree", "pull", "--prefix", prefix, url, branch, "--squash")
	return err
}

// Fetch updates remote-tracking refs for origin.
func (g *Git) Fetch(ctx context.Context, dir string) error {
	_, err := g.Run(ctx, dir, "fetch", "origin")
	return err
}

// MergeFFOnly fast-forwards the current branch to ref, refusing to create a
// merge commit.
func (g *Git) MergeFFOnly(ctx context.Context, dir, ref string) error {
	_, err := g.Run(ctx, dir, "merge", "--ff-only", ref)
	return err
}

// ResetHard discards local state and moves the current branch to ref.
func (g *Git) ResetHard(ctx context.Context, dir, ref string) error {
	_, err := g.Run(ctx, dir, "reset", "--hard", ref)
	return err
}
