// ABOUTME: Manager wiring config, git, resolver, and fetcher into install strategies
// ABOUTME: One Strategy per mechanism; Check runs before any mutation

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JINWOO-J/universal-makefile/internal/archive"
	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/download"
	"github.com/JINWOO-J/universal-makefile/internal/gitx"
	"github.com/JINWOO-J/universal-makefile/internal/log"
	"github.com/JINWOO-J/universal-makefile/internal/release"
	"github.com/JINWOO-J/universal-makefile/internal/scaffold"
)

// ErrNotInstalled reports that no mechanism left its markers in the project.
var ErrNotInstalled = errors.New("universal makefile system is not installed")

// ErrDiverged reports a git-managed install that cannot fast-forward.
var ErrDiverged = errors.New("install has diverged from upstream")

// Prompter asks the user a yes/no question. Implementations must return the
// default without blocking when no interactive terminal is attached.
type Prompter interface {
	Confirm(question string, def bool) bool
}

// Strategy is one install mechanism. Check must fail before any mutation
// when preconditions are missing.
type Strategy interface {
	Name() Mechanism
	Check(ctx context.Context) error
	Install(ctx context.Context) error
	Update(ctx context.Context) error
	Remove(ctx context.Context) error
}

// Manager owns the collaborators shared by all strategies and dispatches
// install, update, uninstall, and status operations.
type Manager struct {
	cfg      config.Config
	git      *gitx.Git
	resolver *release.Resolver
	fetcher  *archive.Fetcher
	prompt   Prompter
	workDir  string
	out      io.Writer

	strategies map[Mechanism]Strategy
}

// New builds a Manager. workDir must live under the process temp root;
// progress may be nil to disable download progress bars.
func New(cfg config.Config, workDir string, prompt Prompter, progress io.Writer) *Manager {
	dl := download.New(cfg.RetryMax, cfg.RetryDelay, cfg.Token, progress)
	git := gitx.New()

	m := &Manager{
		cfg:      cfg,
		git:      git,
		resolver: release.NewResolver(cfg, dl, git),
		fetcher:  archive.NewFetcher(cfg, dl, workDir),
		prompt:   prompt,
		workDir:  workDir,
		out:      os.Stdout,
	}
	m.strategies = map[Mechanism]Strategy{
		MechanismCopy:      &copyStrategy{m},
		MechanismSubmodule: &submoduleStrategy{m},
		MechanismSubtree:   &subtreeStrategy{m},
		MechanismRelease:   &releaseStrategy{m},
	}
	return m
}

// Strategy returns the strategy for mech.
func (m *Manager) Strategy(mech Mechanism) (Strategy, error) {
	s, ok := m.strategies[mech]
	if !ok {
		return nil, fmt.Errorf("no install strategy for mechanism %q", mech)
	}
	return s, nil
}

// Install runs the requested mechanism's preconditions and install, then
// scaffolds the project files. A requested ref is pinned so later runs
// reproduce it.
func (m *Manager) Install(ctx context.Context, mech Mechanism) error {
	s, err := m.Strategy(mech)
	if err != nil {
		return err
	}
	if err := s.Check(ctx); err != nil {
		return err
	}

	if m.cfg.DryRun {
		log.Info("dry-run: would install", "mechanism", mech.String(), "path", m.cfg.InstallDir)
		return nil
	}

	log.Info("installing", "mechanism", mech.String(), "repo", m.cfg.Owner+"/"+m.cfg.Repo)
	if err := s.Install(ctx); err != nil {
		return err
	}

	if m.cfg.RequestedRef != "" && mech != MechanismCopy {
		if err := release.WriteRefFile(m.cfg.PinPath(), m.cfg.RequestedRef); err != nil {
			return fmt.Errorf("writing version pin: %w", err)
		}
		log.Info("version pinned", "ref", m.cfg.RequestedRef, "file", config.PinFile)
	}

	scfg := m.cfg
	if mech == MechanismCopy {
		// Vendored trees live at the root, the entry include points there.
		scfg.InstallDir = "."
	}
	created, err := scaffold.Scaffold(scfg)
	if err != nil {
		return fmt.Errorf("scaffolding project files: %w", err)
	}
	for _, c := range created {
		if c.Skipped {
			log.Debug("scaffold kept existing file", "path", c.Path)
		} else {
			log.Info("scaffold created", "path", c.Path)
		}
	}
	return nil
}

// Reconcile detects the active mechanism and brings the install up to date
// with its upstream. Returns the mechanism it acted on.
func (m *Manager) Reconcile(ctx context.Context) (Mechanism, error) {
	mech, err := m.Detect(ctx)
	if err != nil {
		return MechanismNone, err
	}
	s := m.strategies[mech]

	if m.cfg.DryRun {
		log.Info("dry-run: would update", "mechanism", mech.String(), "path", m.cfg.InstallDir)
		return mech, nil
	}

	log.Info("updating", "mechanism", mech.String())
	if err := s.Update(ctx); err != nil {
		return mech, err
	}
	return mech, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
