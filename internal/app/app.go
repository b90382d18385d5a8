// ABOUTME: Example application templates shipped inside the install tree
// ABOUTME: Optional app.yaml manifests; unknown names get fuzzy suggestions

package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cp "github.com/otiai10/copy"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// ErrUnknownExample reports a requested example that does not exist.
var ErrUnknownExample = errors.New("unknown example")

// Example is one installable template directory.
type Example struct {
	Name        string
	Dir         string
	Description string
	Files       []string
}

// manifest is the optional app.yaml sidecar describing an example.
type manifest struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Files       []string `yaml:"files"`
}

// metaFiles never get copied into a project.
var metaFiles = map[string]bool{"app.yaml": true, "README.md": true}

// List finds the installable examples, preferring the install tree and
// falling back to a root-level examples directory for copy installs.
func List(cfg config.Config) ([]Example, error) {
	roots := []string{
		filepath.Join(cfg.InstallPath(), "examples"),
		filepath.Join(cfg.ProjectRoot, "examples"),
	}
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		var out []Example
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			out = append(out, load(filepath.Join(root, e.Name()), e.Name()))
		}
		if len(out) > 0 {
			sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
			return out, nil
		}
	}
	return nil, errors.New("no examples found; run 'umf install' first")
}

// load reads the example's manifest when present. The directory name is
// the identity; the manifest only adds description and file selection.
func load(dir, name string) Example {
	ex := Example{Name: name, Dir: dir}
	data, err := os.ReadFile(filepath.Join(dir, "app.yaml"))
	if err != nil {
		return ex
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		log.Warn("ignoring malformed app.yaml", "example", name, "error", err)
		return ex
	}
	ex.Description = m.Description
	ex.Files = m.Files
	return ex
}

// Find returns the named example, or ErrUnknownExample with up to three
// fuzzy suggestions.
func Find(examples []Example, name string) (Example, error) {
	names := make([]string, len(examples))
	for i, ex := range examples {
		if ex.Name == name {
			return ex, nil
		}
		names[i] = ex.Name
	}

	matches := fuzzy.Find(name, names)
	var suggestions []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	if len(suggestions) > 0 {
		return Example{}, fmt.Errorf("%w %q; did you mean: %s?", ErrUnknownExample, name, strings.Join(suggestions, ", "))
	}
	return Example{}, fmt.Errorf("%w %q", ErrUnknownExample, name)
}

// Install copies the example's files into the project root. Existing
// files are kept with a warning. Returns the paths actually written.
func Install(cfg config.Config, ex Example) ([]string, error) {
	files := ex.Files
	if len(files) == 0 {
		var err error
		files, err = defaultFiles(ex.Dir)
		if err != nil {
			return nil, fmt.Errorf("listing example files: %w", err)
		}
	}

	var installed []string
	for _, rel := range files {
		src := filepath.Join(ex.Dir, rel)
		if _, err := os.Stat(src); err != nil {
			log.Warn("example file missing, skipped", "path", rel)
			continue
		}
		dst := filepath.Join(cfg.ProjectRoot, rel)
		if _, err := os.Lstat(dst); err == nil {
			log.Warn("kept existing file", "path", rel)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return installed, fmt.Errorf("creating directory for %s: %w", rel, err)
		}
		if err := cp.Copy(src, dst); err != nil {
			return installed, fmt.Errorf("copying %s: %w", rel, err)
		}
		installed = append(installed, rel)
	}
	return installed, nil
}

// defaultFiles lists everything in the example except the meta files.
func defaultFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if metaFiles[rel] {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	sort.Strings(files)
	return files, err
}
