// ABOUTME: Mechanism enum naming the four ways the build system can be installed
// ABOUTME: Parsed from CLI flags and marker files, stringified for status output

package installer

import (
	"fmt"
	"strings"
)

// Mechanism identifies how the build system is vendored into a project.
type Mechanism int

const (
	// MechanismNone means no mechanism detected or requested.
	MechanismNone Mechanism = iota
	// MechanismCopy vendors the makefiles directly into the project tree.
	MechanismCopy
	// MechanismSubmodule tracks the upstream repository as a git submodule.
	MechanismSubmodule
	// MechanismSubtree merges upstream squashed under a prefix via git subtree.
	MechanismSubtree
	// MechanismRelease unpacks a release tarball into the install directory.
	MechanismRelease
)

// String returns the lowercase name used in flags, markers, and status output.
func (m Mechanism) String() string {
	switch m {
	case MechanismCopy:
		return "copy"
	case MechanismSubmodule:
		return "submodule"
	case MechanismSubtree:
		return "subtree"
	case MechanismRelease:
		return "release"
	default:
		return "none"
	}
}

// ParseMechanism maps flag or marker text to a Mechanism.
func ParseMechanism(s string) (Mechanism, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return MechanismCopy, nil
	case "submodule":
		return MechanismSubmodule, nil
	case "subtree":
		return MechanismSubtree, nil
	case "release":
		return MechanismRelease, nil
	default:
		return MechanismNone, fmt.Errorf("unknown install mechanism %q (want copy, submodule, subtree, or release)", s)
	}
}
