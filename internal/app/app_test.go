// ABOUTME: Tests for example template discovery and installation
// ABOUTME: Covers manifests, fuzzy suggestions, and the keep-existing rule

package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JINWOO-J/universal-makefile/internal/config"
)

func testConfig(root string) config.Config {
	return config.Config{
		InstallDir:  ".makefile-system",
		ProjectRoot: root,
	}
}

// writeExample lays out one example directory with the given files.
func writeExample(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, "examples", name)
	for rel, body := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestList_ReadsInstallTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	writeExample(t, cfg.InstallPath(), "web-app", map[string]string{
		"app.yaml":           "description: Web service with compose\nfiles:\n  - docker-compose.yml\n",
		"docker-compose.yml": "services: {}\n",
	})
	writeExample(t, cfg.InstallPath(), "cli-tool", map[string]string{
		"main.go": "package main\n",
	})

	examples, err := List(cfg)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("got %d examples, want 2", len(examples))
	}
	if examples[0].Name != "cli-tool" || examples[1].Name != "web-app" {
		t.Errorf("examples not sorted by name: %q, %q", examples[0].Name, examples[1].Name)
	}
	if examples[1].Description != "Web service with compose" {
		t.Errorf("description = %q", examples[1].Description)
	}
	if len(examples[1].Files) != 1 || examples[1].Files[0] != "docker-compose.yml" {
		t.Errorf("manifest files = %v", examples[1].Files)
	}
	if examples[0].Description != "" {
		t.Errorf("manifest-less example has description %q", examples[0].Description)
	}
}

func TestList_FallsBackToProjectRoot(t *testing.T) {
	t.Parallel()

	// Copy installs vendor examples at the project root, not under the
	// install directory.
	root := t.TempDir()
	cfg := testConfig(root)
	writeExample(t, root, "minimal", map[string]string{"Makefile": "all:\n"})

	examples, err := List(cfg)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(examples) != 1 || examples[0].Name != "minimal" {
		t.Fatalf("examples = %+v", examples)
	}
}

func TestList_NoExamples(t *testing.T) {
	t.Parallel()

	if _, err := List(testConfig(t.TempDir())); err == nil {
		t.Fatal("expected an error when no examples exist")
	}
}

func TestList_IgnoresMalformedManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	writeExample(t, cfg.InstallPath(), "broken", map[string]string{
		"app.yaml": "{not yaml: [",
		"file.txt": "x\n",
	})

	examples, err := List(cfg)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(examples) != 1 || examples[0].Name != "broken" || examples[0].Description != "" {
		t.Fatalf("examples = %+v", examples)
	}
}

func TestFind_ExactMatch(t *testing.T) {
	t.Parallel()

	examples := []Example{{Name: "web-app"}, {Name: "cli-tool"}}
	ex, err := Find(examples, "cli-tool")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ex.Name != "cli-tool" {
		t.Errorf("found %q", ex.Name)
	}
}

func TestFind_UnknownSuggestsClose(t *testing.T) {
	t.Parallel()

	examples := []Example{{Name: "web-app"}, {Name: "cli-tool"}, {Name: "worker"}}
	_, err := Find(examples, "web-ap")
	if !errors.Is(err, ErrUnknownExample) {
		t.Fatalf("err = %v, want ErrUnknownExample", err)
	}
	if !strings.Contains(err.Error(), "did you mean") || !strings.Contains(err.Error(), "web-app") {
		t.Errorf("no suggestion in %q", err)
	}
}

func TestFind_UnknownNoMatches(t *testing.T) {
	t.Parallel()

	_, err := Find([]Example{{Name: "web-app"}}, "zzz")
	if !errors.Is(err, ErrUnknownExample) {
		t.Fatalf("err = %v, want ErrUnknownExample", err)
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("unexpected suggestion in %q", err)
	}
}

func TestInstall_CopiesManifestSelection(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	dir := writeExample(t, cfg.InstallPath(), "web-app", map[string]string{
		"app.yaml":           "files:\n  - docker-compose.yml\n",
		"docker-compose.yml": "services: {}\n",
		"extra.txt":          "not selected\n",
		"README.md":          "# Web app\n",
	})

	installed, err := Install(cfg, load(dir, "web-app"))
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(installed) != 1 || installed[0] != "docker-compose.yml" {
		t.Fatalf("installed = %v", installed)
	}
	if _, err := os.Stat(filepath.Join(root, "docker-compose.yml")); err != nil {
		t.Errorf("selected file not copied: %v", err)
	}
	for _, absent := range []string{"extra.txt", "README.md", "app.yaml"} {
		if _, err := os.Stat(filepath.Join(root, absent)); err == nil {
			t.Errorf("%s copied despite not being selected", absent)
		}
	}
}

func TestInstall_DefaultCopiesAllButMeta(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	dir := writeExample(t, cfg.InstallPath(), "cli-tool", map[string]string{
		"main.go":        "package main\n",
		"cmd/run.go":     "package cmd\n",
		"README.md":      "# CLI\n",
		"app.yaml":       "description: CLI starter\n",
	})

	installed, err := Install(cfg, load(dir, "cli-tool"))
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	want := []string{"cmd/run.go", "main.go"}
	if len(installed) != len(want) {
		t.Fatalf("installed = %v, want %v", installed, want)
	}
	for i, rel := range want {
		if installed[i] != rel {
			t.Errorf("installed[%d] = %q, want %q", i, installed[i], rel)
		}
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("%s not copied: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "README.md")); err == nil {
		t.Error("README.md copied into the project")
	}
}

func TestInstall_KeepsExistingFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	dir := writeExample(t, cfg.InstallPath(), "web-app", map[string]string{
		"docker-compose.yml": "services: {}\n",
		"Caddyfile":          "example.com\n",
	})
	if err := os.WriteFile(filepath.Join(root, "Caddyfile"), []byte("mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	installed, err := Install(cfg, load(dir, "web-app"))
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(installed) != 1 || installed[0] != "docker-compose.yml" {
		t.Fatalf("installed = %v", installed)
	}
	kept, err := os.ReadFile(filepath.Join(root, "Caddyfile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(kept) != "mine\n" {
		t.Errorf("existing file overwritten: %q", kept)
	}
}

func TestInstall_MissingManifestFileSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	dir := writeExample(t, cfg.InstallPath(), "web-app", map[string]string{
		"app.yaml": "files:\n  - present.txt\n  - missing.txt\n",
		"present.txt": "here\n",
	})

	installed, err := Install(cfg, load(dir, "web-app"))
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(installed) != 1 || installed[0] != "present.txt" {
		t.Fatalf("installed = %v", installed)
	}
}

func TestReadme(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	dir := writeExample(t, cfg.InstallPath(), "web-app", map[string]string{
		"README.md": "# Web app\n\nA compose-based starter.\n",
	})

	out, err := Readme(load(dir, "web-app"))
	if err != nil {
		t.Fatalf("Readme: %v", err)
	}
	if !strings.Contains(out, "Web app") || !strings.Contains(out, "compose-based starter") {
		t.Errorf("rendered README missing content:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("rendered README does not end with a newline")
	}
}

func TestReadme_MissingIsEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	dir := writeExample(t, cfg.InstallPath(), "bare", map[string]string{"x.txt": "x\n"})

	out, err := Readme(load(dir, "bare"))
	if err != nil {
		t.Fatalf("Readme: %v", err)
	}
	if out != "" {
		t.Errorf("out = %q, want empty", out)
	}
}
