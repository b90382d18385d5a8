// ABOUTME: Tests for clone/submodule/subtree porcelain against real repositories
// ABOUTME: Subtree detection is tested via crafted trailers, no git-subtree binary needed

package gitx

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// gitIn runs a git command inside dir, failing the test on error.
func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %s: %v", args, out, err)
	}
	return string(out)
}

// allowFileProtocol lets submodule tests use local path remotes, which newer
// git versions block by default.
func allowFileProtocol(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_CONFIG_COUNT", "1")
	t.Setenv("GIT_CONFIG_KEY_0", "protocol.file.allow")
	t.Setenv("GIT_CONFIG_VALUE_0", "always")
}

func TestCloneShallow(t *testing.T) {
	t.Parallel()

	origin := setupRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")
	g := New()

	if err := g.CloneShallow(context.Background(), origin, "main", dest); err != nil {
		t.Fatalf("CloneShallow() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); err != nil {
		t.Errorf("cloned file missing: %v", err)
	}
}

func TestGitDir(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	g := New()

	got, err := g.GitDir(repo)
	if err != nil {
		t.Fatalf("GitDir() error = %v", err)
	}
	wantInfo, err := os.Stat(filepath.Join(repo, ".git"))
	if err != nil {
		t.Fatal(err)
	}
	gotInfo, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat GitDir result: %v", err)
	}
	if !os.SameFile(wantInfo, gotInfo) {
		t.Errorf("GitDir() = %q, want the repository's .git directory", got)
	}
}

func TestHasSubmodule_NoGitmodules(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	g := New()

	if g.HasSubmodule(repo, ".makefile-system") {
		t.Error("HasSubmodule() = true in a repository without .gitmodules")
	}
}

func TestSubmoduleAddDeinit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping submodule round trip in short mode")
	}

	origin := setupRepo(t)
	super := setupRepo(t)
	allowFileProtocol(t)
	g := New()
	ctx := context.Background()

	if err := g.SubmoduleAdd(ctx, super, origin, ".makefile-system"); err != nil {
		t.Fatalf("SubmoduleAdd() error = %v", err)
	}
	if !g.HasSubmodule(super, ".makefile-system") {
		t.Fatal("HasSubmodule() = false after SubmoduleAdd")
	}

	if err := g.SubmoduleDeinit(ctx, super, ".makefile-system"); err != nil {
		t.Fatalf("SubmoduleDeinit() error = %v", err)
	}
	if err := g.Rm(ctx, super, ".makefile-system"); err != nil {
		t.Fatalf("Rm() error = %v", err)
	}
	if g.HasSubmodule(super, ".makefile-system") {
		t.Error("HasSubmodule() = true after deinit and rm")
	}
}

func TestHasSubtree(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	g := New()

	if g.HasSubtree(repo, ".makefile-system") {
		t.Error("HasSubtree() = true without a subtree merge commit")
	}

	// A squashed subtree merge leaves this trailer in its commit message.
	gitIn(t, repo, "commit", "--allow-empty",
		"-m", "Squashed '.makefile-system/' content",
		"-m", "git-subtree-dir: .makefile-system\ngit-subtree-split: 0123456789abcdef")

	if !g.HasSubtree(repo, ".makefile-system") {
		t.Error("HasSubtree() = false with a subtree trailer in history")
	}
	if g.HasSubtree(repo, "other-dir") {
		t.Error("HasSubtree() matched a different prefix")
	}
}

func TestFetchMergeReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping fetch/merge round trip in short mode")
	}
	t.Parallel()

	origin := setupRepo(t)
	clone := filepath.Join(t.TempDir(), "clone")
	g := New()
	ctx := context.Background()

	gitIn(t, origin, "clone", origin, clone)
	gitIn(t, clone, "config", "user.email", "test@test.com")
	gitIn(t, clone, "config", "user.name", "Test")

	// Upstream moves ahead.
	if err := os.WriteFile(filepath.Join(origin, "new.txt"), []byte("upstream\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	gitIn(t, origin, "add", ".")
	gitIn(t, origin, "commit", "-m", "upstream change")

	if err := g.Fetch(ctx, clone); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := g.MergeFFOnly(ctx, clone, "origin/main"); err != nil {
		t.Fatalf("MergeFFOnly() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(clone, "new.txt")); err != nil {
		t.Errorf("fast-forward did not bring upstream file: %v", err)
	}

	// Diverge locally: fast-forward must fail, hard reset must recover.
	gitIn(t, clone, "commit", "--allow-empty", "-m", "local divergence")
	if err := os.WriteFile(filepath.Join(origin, "more.txt"), []byte("upstream\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	gitIn(t, origin, "add", ".")
	gitIn(t, origin, "commit", "-m", "second upstream change")

	if err := g.Fetch(ctx, clone); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := g.MergeFFOnly(ctx, clone, "origin/main"); err == nil {
		t.Fatal("MergeFFOnly() succeeded on diverged branches")
	}
	if err := g.ResetHard(ctx, clone, "origin/main"); err != nil {
		t.Fatalf("ResetHard() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(clone, "more.txt")); err != nil {
		t.Errorf("hard reset did not match upstream: %v", err)
	}
}

func TestRmRecursive(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	g := New()

	sub := filepath.Join(repo, "vendor-dir")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	gitIn(t, repo, "add", ".")
	gitIn(t, repo, "commit", "-m", "add vendor dir")

	if err := g.RmRecursive(context.Background(), repo, "vendor-dir"); err != nil {
		t.Fatalf("RmRecursive() error = %v", err)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Error("directory still present after RmRecursive")
	}
}
