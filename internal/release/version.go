// ABOUTME: Semver comparison helper used when deciding whether to offer an upgrade
// ABOUTME: A branch pin always loses to a real release version

package release

import "github.com/Masterminds/semver/v3"

// Newer reports whether candidate is a newer version than current.
// Non-semver candidates are never newer; a non-semver current (a branch
// pin) is always superseded by a semver candidate.
func Newer(candidate, current string) bool {
	cv, err := semver.NewVersion(candidate)
	if err != nil {
		return false
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return true
	}
	return cv.GreaterThan(cur)
}
