// ABOUTME: Per-subcommand flag parsing using the stdlib flag package
// ABOUTME: Flags override environment which overrides compiled-in defaults

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/installer"
)

// usageError marks errors that should exit 2 instead of 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// invocation is one parsed subcommand: configuration plus the few
// command-specific selections that do not belong in config.
type invocation struct {
	cfg    config.Config
	mech   installer.Mechanism
	format string
	rest   []string
}

func parseCommand(cmd string, args []string) (*invocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	root, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	inv := &invocation{cfg: config.New(root), format: "table"}
	cfg := &inv.cfg

	fs := flag.NewFlagSet("umf "+cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	// Shared across every subcommand. Defaults come from the
	// environment-layered config so flags stay the last word.
	fs.BoolVar(&cfg.Yes, "yes", cfg.Yes, "Assume yes for every prompt")
	fs.BoolVar(&cfg.Force, "force", cfg.Force, "Override safety checks (hard reset on update, replace on install)")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Show what would happen without changing anything")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")

	var mechCopy, mechSubmodule, mechSubtree, mechRelease bool
	addSourceFlags := func() {
		fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "Source repository owner")
		fs.StringVar(&cfg.Repo, "repo", cfg.Repo, "Source repository name")
		fs.StringVar(&cfg.Branch, "branch", cfg.Branch, "Branch used for snapshots and git-based installs")
		fs.StringVar(&cfg.RemoteURL, "remote", cfg.RemoteURL, "Clone URL override (defaults to the GitHub URL)")
		fs.StringVar(&cfg.InstallDir, "prefix", cfg.InstallDir, "Install directory, relative to the project root")
		fs.StringVar(&cfg.InstallDir, "install-dir", cfg.InstallDir, "Alias for --prefix")
		fs.StringVar(&cfg.RequestedRef, "version", cfg.RequestedRef, "Exact tag or branch to install")
		fs.StringVar(&cfg.RequestedRef, "ref", cfg.RequestedRef, "Alias for --version")
	}

	switch cmd {
	case "install":
		addSourceFlags()
		fs.BoolVar(&mechCopy, "copy", false, "Vendor the makefiles directly into the project")
		fs.BoolVar(&mechSubmodule, "submodule", false, "Install as a git submodule")
		fs.BoolVar(&mechSubtree, "subtree", false, "Install as a git subtree")
		fs.BoolVar(&mechRelease, "release", false, "Install from a release tarball (default)")
		fs.BoolVar(&cfg.Backup, "backup", cfg.Backup, "Keep a timestamped backup of a replaced install")
		fs.BoolVar(&cfg.ExistingProject, "existing-project", cfg.ExistingProject, "Skip sample files meant for fresh projects")
	case "update":
		addSourceFlags()
		fs.BoolVar(&cfg.Backup, "backup", cfg.Backup, "Keep a timestamped backup of the replaced install")
	case "uninstall":
		fs.BoolVar(&cfg.Backup, "backup", cfg.Backup, "Keep timestamped backups of removed paths")
		fs.BoolVar(&cfg.RemovePins, "remove-pins", cfg.RemovePins, "Also remove the version pin file")
	case "status":
		fs.StringVar(&inv.format, "format", inv.format, "Output format: table, json, or yaml")
	case "check", "app":
		// Positional arguments only.
	default:
		return nil, usageErrorf("unknown command %q; run 'umf help'", cmd)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		// The FlagSet already printed the problem and its usage.
		return nil, usageError{err}
	}
	inv.rest = fs.Args()

	picked := 0
	for _, on := range []bool{mechCopy, mechSubmodule, mechSubtree, mechRelease} {
		if on {
			picked++
		}
	}
	if picked > 1 {
		return nil, usageErrorf("--copy, --submodule, --subtree, and --release are mutually exclusive")
	}
	switch {
	case mechCopy:
		inv.mech = installer.MechanismCopy
	case mechSubmodule:
		inv.mech = installer.MechanismSubmodule
	case mechSubtree:
		inv.mech = installer.MechanismSubtree
	default:
		inv.mech = installer.MechanismRelease
	}

	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}
	return inv, nil
}
