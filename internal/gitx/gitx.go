// ABOUTME: Thin git CLI wrapper: run commands, query work-tree state, list remote tags
// ABOUTME: Wraps exec.CommandContext; query helpers carry their own 30s timeout

package gitx

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

const defaultTimeout = 30 * time.Second

// Git runs git commands. The zero value works; New sets the query timeout.
type Git struct {
	// Timeout bounds query helpers (status, rev-parse). Run uses the
	// caller's context untouched so long clones are not cut short.
	Timeout time.Duration
}

// New returns a Git with the default query timeout.
func New() *Git {
	return &Git{Timeout: defaultTimeout}
}

// Available reports whether the git binary is on PATH.
func (g *Git) Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes git with args in dir and returns trimmed combined output.
// The error message carries the git output, which is where git explains
// itself.
func (g *Git) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		return text, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, text)
	}
	log.Debug("git", "dir", dir, "args", strings.Join(args, " "))
	return text, nil
}

// query runs a helper command under the package timeout.
func (g *Git) query(dir string, args ...string) (string, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return g.Run(ctx, dir, args...)
}

// IsWorkTree reports whether dir is inside a git working tree.
func (g *Git) IsWorkTree(dir string) bool {
	out, err := g.query(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// TopLevel returns the repository root containing dir.
func (g *Git) TopLevel(dir string) (string, error) {
	return g.query(dir, "rev-parse", "--show-toplevel")
}

// RemoteURL returns the URL of the named remote, or "" when unset.
func (g *Git) RemoteURL(dir, remote string) string {
	out, err := g.query(dir, "config", "--get", "remote."+remote+".url")
	if err != nil {
		return ""
	}
	return out
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (g *Git) CurrentBranch(dir string) (string, error) {
	return g.query(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// HeadCommit returns the short HEAD commit hash.
func (g *Git) HeadCommit(dir string) (string, error) {
	return g.query(dir, "rev-parse", "--short", "HEAD")
}

// IsDirty reports whether the working tree at dir has uncommitted changes.
func (g *Git) IsDirty(dir string) (bool, error) {
	out, err := g.query(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// LsRemoteTags lists tag names on a remote, deduplicated and sorted, with
// peeled ^{} entries folded into their tag.
func (g *Git) LsRemoteTags(ctx context.Context, remoteURL string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-remote", "--tags", remoteURL)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git ls-remote --tags %s: %w: %s", remoteURL, err, strings.TrimSpace(string(out)))
	}
	return parseLsRemoteTags(string(out)), nil
}

// parseLsRemoteTags extracts unique tag names from ls-remote output lines
// of the form "<sha>\trefs/tags/<name>".
func parseLsRemoteTags(out string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		_, ref, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		ref = strings.TrimSpace(ref)
		if !strings.HasPrefix(ref, "refs/tags/") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(ref, "refs/tags/"), "^{}")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	sort.Strings(tags)
	return tags
}
