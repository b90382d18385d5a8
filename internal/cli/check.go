// ABOUTME: Environment check subcommand: verifies the managed project layout
// ABOUTME: Required failures make the command error so CI can gate on it

package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/release"
)

// check is one verification line. Optional checks print a warning mark
// instead of failing the command.
type check struct {
	name     string
	ok       bool
	required bool
	hint     string
}

// Check verifies the project is wired up: entry Makefile, project
// config, and an install tree containing Makefile.universal. Returns an
// error when any required piece is missing.
func (c *CLI) Check() error {
	checks := c.runChecks()

	failed := 0
	for _, ck := range checks {
		mark := "✓"
		if !ck.ok {
			mark = "!"
			if ck.required {
				mark = "✗"
				failed++
			}
		}
		line := fmt.Sprintf("%s %s", mark, ck.name)
		if !ck.ok && ck.hint != "" {
			line += ": " + ck.hint
		}
		fmt.Fprintln(c.out, line)
	}

	if failed > 0 {
		return fmt.Errorf("%d required check(s) failed", failed)
	}
	return nil
}

func (c *CLI) runChecks() []check {
	root := c.cfg.ProjectRoot
	scaffoldHint := "run 'umf install' to scaffold it"

	out := []check{
		pathCheck("entry Makefile", filepath.Join(root, "Makefile"), true, scaffoldHint),
		pathCheck("project config (project.mk)", filepath.Join(root, "project.mk"), true, scaffoldHint),
	}

	// The install tree is either the install directory or, for copy
	// installs, the vendored makefiles directory at the project root.
	tree := c.cfg.InstallPath()
	core := filepath.Join(tree, "Makefile.universal")
	if !dirExists(tree) && dirExists(c.cfg.CopyDirPath()) {
		tree = c.cfg.CopyDirPath()
		// Copy installs vendor Makefile.universal at the project root.
		core = filepath.Join(root, "Makefile.universal")
	}
	out = append(out,
		check{name: "install tree (" + c.rel(tree) + ")", ok: dirExists(tree), required: true, hint: "run 'umf install'"},
		pathCheck("core makefile ("+c.rel(core)+")", core, true, "run 'umf update' to repair the install"),
	)

	_, gitErr := exec.LookPath("git")
	out = append(out, check{
		name:     "git on PATH",
		ok:       gitErr == nil,
		required: false,
		hint:     "submodule and subtree mechanisms need git",
	})

	pin, _ := release.ReadRefFile(c.cfg.PinPath())
	out = append(out, check{
		name:     "version pin (" + config.PinFile + ")",
		ok:       pin != "",
		required: false,
		hint:     "pin a release with 'umf install --version vX.Y.Z'",
	})

	return out
}

func pathCheck(name, path string, required bool, hint string) check {
	_, err := os.Stat(path)
	return check{name: name, ok: err == nil, required: required, hint: hint}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// rel shortens a path for display, relative to the project root.
func (c *CLI) rel(path string) string {
	rel, err := filepath.Rel(c.cfg.ProjectRoot, path)
	if err != nil {
		return path
	}
	return rel
}
