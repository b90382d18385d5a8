// ABOUTME: Project scaffolding: entry Makefile, project.mk, env stubs, gitignore block, compose sample
// ABOUTME: Existing files are never overwritten; the gitignore block appends at most once

package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/gitx"
	"github.com/JINWOO-J/universal-makefile/internal/log"
)

const (
	gitignoreBegin = "# >>> universal-makefile >>>"
	gitignoreEnd   = "# <<< universal-makefile <<<"
)

// Created records one scaffold target, relative to the project root.
type Created struct {
	Path    string
	Skipped bool
}

// Scaffold writes the project-side files the build system expects. Files
// that already exist are left byte-for-byte untouched; the only permitted
// modification is appending the managed block to a .gitignore lacking it.
func Scaffold(cfg config.Config) ([]Created, error) {
	name, namespace := inferProject(cfg)

	files := []struct {
		rel     string
		content string
	}{
		{"Makefile", entryMakefile(cfg.InstallDir)},
		{"project.mk", projectMK(name, namespace)},
		{filepath.Join("environments", "development.mk"), developmentMK},
		{filepath.Join("environments", "production.mk"), productionMK},
	}
	if !cfg.ExistingProject {
		files = append(files, struct {
			rel     string
			content string
		}{"docker-compose.dev.yml", composeSample(name)})
	}

	var out []Created
	for _, f := range files {
		c, err := writeIfAbsent(cfg.ProjectRoot, f.rel, f.content)
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}

	c, err := ensureGitignoreBlock(cfg.ProjectRoot, cfg.InstallDir)
	if err != nil {
		return out, err
	}
	out = append(out, c)
	return out, nil
}

// writeIfAbsent creates rel under root with content, or skips when present.
func writeIfAbsent(root, rel, content string) (Created, error) {
	path := filepath.Join(root, rel)
	if _, err := os.Lstat(path); err == nil {
		return Created{Path: rel, Skipped: true}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Created{}, fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Created{}, fmt.Errorf("writing %s: %w", rel, err)
	}
	return Created{Path: rel}, nil
}

// ensureGitignoreBlock appends the managed block when its markers are
// absent. User lines are never touched.
func ensureGitignoreBlock(root, installDir string) (Created, error) {
	path := filepath.Join(root, ".gitignore")
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Created{}, fmt.Errorf("reading .gitignore: %w", err)
	}
	if strings.Contains(string(existing), gitignoreBegin) {
		return Created{Path: ".gitignore", Skipped: true}, nil
	}

	block := gitignoreBlock(installDir)
	if len(existing) > 0 {
		sep := "\n"
		if !strings.HasSuffix(string(existing), "\n") {
			sep = "\n\n"
		}
		block = sep + block
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Created{}, fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(block); err != nil {
		return Created{}, fmt.Errorf("appending to .gitignore: %w", err)
	}
	return Created{Path: ".gitignore"}, nil
}

// inferProject derives the project name from the directory and the
// namespace from the git remote owner, with fixed fallbacks.
func inferProject(cfg config.Config) (name, namespace string) {
	name = "app"
	if abs, err := filepath.Abs(cfg.ProjectRoot); err == nil {
		if base := filepath.Base(abs); base != "." && base != string(filepath.Separator) && base != "" {
			name = strings.ReplaceAll(base, " ", "-")
		}
	}

	namespace = "mycompany"
	g := gitx.New()
	if g.Available() && g.IsWorkTree(cfg.ProjectRoot) {
		if owner := ownerFromRemote(g.RemoteURL(cfg.ProjectRoot, "origin")); owner != "" {
			namespace = owner
		}
	}
	log.Debug("inferred project identity", "name", name, "namespace", namespace)
	return name, namespace
}

// ownerFromRemote extracts the owner segment from https, ssh, and
// scp-style git remote URLs.
func ownerFromRemote(remote string) string {
	remote = strings.TrimSpace(strings.TrimSuffix(remote, ".git"))
	if remote == "" {
		return ""
	}
	if _, rest, ok := strings.Cut(remote, "://"); ok {
		parts := strings.Split(rest, "/")
		if len(parts) >= 3 {
			return parts[1]
		}
		return ""
	}
	if _, rest, ok := strings.Cut(remote, ":"); ok {
		parts := strings.Split(rest, "/")
		if len(parts) >= 2 && parts[0] != "" {
			return parts[0]
		}
	}
	return ""
}
