// ABOUTME: Tests for project scaffolding: creation, idempotence, gitignore block handling
// ABOUTME: Namespace inference from git remotes runs only when git is available

package scaffold

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JINWOO-J/universal-makefile/internal/config"
)

func testConfig(root string) config.Config {
	return config.Config{
		Owner:       "JINWOO-J",
		Repo:        "universal-makefile",
		Branch:      "main",
		InstallDir:  ".makefile-system",
		ProjectRoot: root,
	}
}

// snapshotTree maps every file under root to its content.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return snap
}

func TestScaffold_CreatesAllFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	created, err := Scaffold(testConfig(root))
	if err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}

	want := []string{
		"Makefile",
		"project.mk",
		filepath.Join("environments", "development.mk"),
		filepath.Join("environments", "production.mk"),
		"docker-compose.dev.yml",
		".gitignore",
	}
	if len(created) != len(want) {
		t.Fatalf("Scaffold() created %d entries, want %d: %+v", len(created), len(want), created)
	}
	for i, rel := range want {
		if created[i].Path != rel {
			t.Errorf("created[%d].Path = %q, want %q", i, created[i].Path, rel)
		}
		if created[i].Skipped {
			t.Errorf("created[%d] (%s) skipped on a fresh directory", i, rel)
		}
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("file %s missing: %v", rel, err)
		}
	}

	entry, err := os.ReadFile(filepath.Join(root, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(entry), "MAKEFILE_SYSTEM_DIR := .makefile-system") {
		t.Errorf("entry Makefile missing the indirection variable:\n%s", entry)
	}
	if !strings.Contains(string(entry), "include $(MAKEFILE_SYSTEM_DIR)/Makefile.universal") {
		t.Errorf("entry Makefile missing the include line:\n%s", entry)
	}
	if strings.Count(string(entry), ".makefile-system") != 1 {
		t.Errorf("install path appears more than once in the entry Makefile:\n%s", entry)
	}

	project, err := os.ReadFile(filepath.Join(root, "project.mk"))
	if err != nil {
		t.Fatal(err)
	}
	wantName := "PROJECT_NAME := " + filepath.Base(root)
	if !strings.Contains(string(project), wantName) {
		t.Errorf("project.mk missing %q:\n%s", wantName, project)
	}
	if !strings.Contains(string(project), "NAMESPACE := mycompany") {
		t.Errorf("project.mk missing the namespace fallback:\n%s", project)
	}
}

func TestScaffold_SecondRunChangesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	if _, err := Scaffold(cfg); err != nil {
		t.Fatalf("first Scaffold() error = %v", err)
	}
	before := snapshotTree(t, root)

	created, err := Scaffold(cfg)
	if err != nil {
		t.Fatalf("second Scaffold() error = %v", err)
	}
	for _, c := range created {
		if !c.Skipped {
			t.Errorf("second run created %s", c.Path)
		}
	}

	after := snapshotTree(t, root)
	if len(before) != len(after) {
		t.Fatalf("file count changed: %d -> %d", len(before), len(after))
	}
	for rel, content := range before {
		if after[rel] != content {
			t.Errorf("file %s changed between runs", rel)
		}
	}
}

func TestScaffold_NeverOverwrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	custom := "# my own build\nall:\n\ttrue\n"
	if err := os.WriteFile(filepath.Join(root, "Makefile"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := Scaffold(testConfig(root))
	if err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}
	if !created[0].Skipped {
		t.Error("existing Makefile not reported as skipped")
	}

	data, err := os.ReadFile(filepath.Join(root, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != custom {
		t.Errorf("existing Makefile was overwritten:\n%s", data)
	}
}

func TestScaffold_ExistingProjectSkipsCompose(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	cfg.ExistingProject = true

	created, err := Scaffold(cfg)
	if err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}
	for _, c := range created {
		if c.Path == "docker-compose.dev.yml" {
			t.Error("compose sample scaffolded despite ExistingProject")
		}
	}
	if _, err := os.Stat(filepath.Join(root, "docker-compose.dev.yml")); !os.IsNotExist(err) {
		t.Error("compose sample written despite ExistingProject")
	}
}

func TestGitignore_AppendsBlockOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	user := "node_modules/\n*.log\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(user), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(root)
	if _, err := Scaffold(cfg); err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, user) {
		t.Errorf("user lines disturbed:\n%s", got)
	}
	if !strings.Contains(got, ".makefile-system/") {
		t.Errorf("managed block missing the install dir:\n%s", got)
	}
	if strings.Count(got, gitignoreBegin) != 1 {
		t.Errorf("begin marker count = %d, want 1", strings.Count(got, gitignoreBegin))
	}

	// Second run must not duplicate the block.
	if _, err := Scaffold(cfg); err != nil {
		t.Fatalf("second Scaffold() error = %v", err)
	}
	again, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != got {
		t.Errorf(".gitignore changed on second run:\n%s", again)
	}
}

func TestGitignoreBlock_CopyModeHasNoInstallDirLine(t *testing.T) {
	t.Parallel()

	block := gitignoreBlock(".")
	if strings.Contains(block, "./") {
		t.Errorf("copy-mode block ignores the project root:\n%s", block)
	}
	if !strings.Contains(block, ".makefile-release") {
		t.Errorf("block missing the release marker line:\n%s", block)
	}
}

func TestOwnerFromRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remote string
		want   string
	}{
		{"https://github.com/acme/widget.git", "acme"},
		{"https://github.com/acme/widget", "acme"},
		{"git@github.com:acme/widget.git", "acme"},
		{"ssh://git@github.com/acme/widget.git", "acme"},
		{"https://github.com/", ""},
		{"not-a-remote", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ownerFromRemote(tt.remote); got != tt.want {
			t.Errorf("ownerFromRemote(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestScaffold_NamespaceFromGitRemote(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	root := t.TempDir()
	for _, args := range [][]string{
		{"init", "-b", "main", root},
		{"-C", root, "remote", "add", "origin", "git@github.com:acme/widget.git"},
	} {
		cmd := exec.Command("git", args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %s: %v", args, out, err)
		}
	}

	if _, err := Scaffold(testConfig(root)); err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "project.mk"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "NAMESPACE := acme") {
		t.Errorf("project.mk missing inferred namespace:\n%s", data)
	}
}
