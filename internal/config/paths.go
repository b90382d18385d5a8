// ABOUTME: On-disk state file names and path helpers for a managed project
// ABOUTME: Pin, release marker, version stamp, and copy-mode directory locations

package config

import "path/filepath"

// Marker file names at fixed locations relative to the project root or
// install directory. These are part of the on-disk contract; renaming any
// of them orphans existing installations.
const (
	// PinFile holds a user-chosen target ref, one line, at the project root.
	PinFile = ".makefile-version"

	// ReleaseMarkerFile records the last release ref installed, one line,
	// at the project root. Written after every successful release install,
	// snapshots included.
	ReleaseMarkerFile = ".makefile-release"

	// StampFile lives inside the install directory and holds the installed
	// ref. Absent for branch-snapshot installs.
	StampFile = ".version"

	// CopyDirName is the directory the copy mechanism vendors at the
	// project root. Its bare presence (no other markers) identifies a
	// copy-mode installation.
	CopyDirName = "makefiles"
)

// PinPath returns the absolute path of the version pin file.
func (c Config) PinPath() string {
	return filepath.Join(c.ProjectRoot, PinFile)
}

// ReleaseMarkerPath returns the absolute path of the last-release marker.
func (c Config) ReleaseMarkerPath() string {
	return filepath.Join(c.ProjectRoot, ReleaseMarkerFile)
}

// StampPath returns the absolute path of the version stamp inside the
// install directory.
func (c Config) StampPath() string {
	return filepath.Join(c.InstallPath(), StampFile)
}

// CopyDirPath returns the absolute path of the copy-mode vendor directory.
func (c Config) CopyDirPath() string {
	return filepath.Join(c.ProjectRoot, CopyDirName)
}
