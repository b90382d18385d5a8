// ABOUTME: Immutable run configuration built from defaults, environment, then CLI flags
// ABOUTME: Passed explicitly to every component; nothing reads os.Getenv after startup

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Source repository defaults. Overridable via --owner/--repo/--branch for forks.
const (
	DefaultOwner      = "JINWOO-J"
	DefaultRepo       = "universal-makefile"
	DefaultBranch     = "main"
	DefaultInstallDir = ".makefile-system"

	DefaultRetryMax   = 3
	DefaultRetryDelay = 2 * time.Second
)

// Config holds everything a single command invocation needs. Built once in
// main (defaults -> environment -> flags, later layers win) and treated as
// read-only afterwards.
type Config struct {
	// Source repository coordinates.
	Owner       string
	Repo        string
	Branch      string // default branch used for snapshots and subtree/submodule tracking
	RemoteURL   string // clone URL override; empty derives the GitHub URL from Owner/Repo
	InstallDir  string // install directory name, relative to ProjectRoot
	ProjectRoot string // absolute path to the project being managed

	// Target selection.
	RequestedRef string // --version / --ref; empty means resolve

	// Behavior toggles.
	Force           bool
	Yes             bool
	DryRun          bool
	Backup          bool
	Debug           bool
	ExistingProject bool
	RemovePins      bool

	// Download tuning.
	RetryMax   int
	RetryDelay time.Duration

	// Secrets and verification. Token is never logged.
	Token          string
	ExpectedSHA256 string
}

// New returns a Config with compiled-in defaults layered with the
// environment. projectRoot must be absolute.
func New(projectRoot string) Config {
	cfg := Config{
		Owner:       DefaultOwner,
		Repo:        DefaultRepo,
		Branch:      DefaultBranch,
		InstallDir:  DefaultInstallDir,
		ProjectRoot: projectRoot,
		RetryMax:    DefaultRetryMax,
		RetryDelay:  DefaultRetryDelay,
	}
	applyEnv(&cfg)
	return cfg
}

// RepoURL returns the clone URL of the source repository, honoring the
// RemoteURL override.
func (c Config) RepoURL() string {
	if c.RemoteURL != "" {
		return c.RemoteURL
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", c.Owner, c.Repo)
}

// InstallPath returns the absolute install directory path.
func (c Config) InstallPath() string {
	return filepath.Join(c.ProjectRoot, c.InstallDir)
}

// Validate reports configuration errors a user can act on.
func (c Config) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("source repository owner/repo must not be empty")
	}
	if c.InstallDir == "" {
		return fmt.Errorf("install directory must not be empty")
	}
	if filepath.IsAbs(c.InstallDir) {
		return fmt.Errorf("install directory %q must be relative to the project root", c.InstallDir)
	}
	if c.RetryMax < 1 {
		return fmt.Errorf("retry max must be at least 1, got %d", c.RetryMax)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}
