// ABOUTME: Status probing: mechanism, installed ref, pin, and git state
// ABOUTME: State is plain strings and bools so it serializes cleanly to JSON and YAML

package installer

import (
	"context"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/release"
)

// State describes the detected installation.
type State struct {
	Mechanism   string `json:"mechanism" yaml:"mechanism"`
	InstallPath string `json:"install_path" yaml:"install_path"`
	Ref         string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Pin         string `json:"pin,omitempty" yaml:"pin,omitempty"`
	LastRelease string `json:"last_release,omitempty" yaml:"last_release,omitempty"`
	RemoteURL   string `json:"remote_url" yaml:"remote_url"`
	Branch      string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit      string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Dirty       bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Status reports how the build system is installed and at what version.
func (m *Manager) Status(ctx context.Context) (*State, error) {
	mech, err := m.Detect(ctx)
	if err != nil {
		return nil, err
	}

	st := &State{
		Mechanism:   mech.String(),
		InstallPath: m.cfg.InstallDir,
		RemoteURL:   m.cfg.RepoURL(),
	}
	if mech == MechanismCopy {
		st.InstallPath = config.CopyDirName
	}
	st.Pin, _ = release.ReadRefFile(m.cfg.PinPath())
	st.LastRelease, _ = release.ReadRefFile(m.cfg.ReleaseMarkerPath())
	st.Ref, _ = release.ReadRefFile(m.cfg.StampPath())
	if st.Ref == "" {
		st.Ref = st.Pin
	}

	if mech == MechanismSubmodule && m.git.Available() {
		path := m.cfg.InstallPath()
		st.Branch, _ = m.git.CurrentBranch(path)
		st.Commit, _ = m.git.HeadCommit(path)
		st.Dirty, _ = m.git.IsDirty(path)
		if remote := m.git.RemoteURL(path, "origin"); remote != "" {
			st.RemoteURL = remote
		}
	}
	return st, nil
}
