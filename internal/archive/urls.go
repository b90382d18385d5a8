// ABOUTME: Candidate tarball URL construction for tags, branches, and token access
// ABOUTME: Primary URL first, mirror second; authenticated installs go through the API host

package archive

import (
	"fmt"
	"regexp"

	"github.com/JINWOO-J/universal-makefile/internal/release"
)

var tagPattern = regexp.MustCompile(`^v?[0-9]`)

// looksLikeTag reports whether a non-snapshot ref names a version tag
// rather than a branch. Follows the release naming convention: tags start
// with a digit or v-digit.
func looksLikeTag(ref string) bool {
	return tagPattern.MatchString(ref)
}

// candidateURLs returns the download URLs to try in order. With a token the
// API tarball endpoint comes first since it works for private repositories;
// the public archive URL stays as the mirror. Without a token the public
// archive URL leads and codeload mirrors it.
func candidateURLs(owner, repo string, ref release.Ref, hasToken bool) []string {
	kind := "tags"
	if ref.IsSnapshot || !looksLikeTag(ref.Ref) {
		kind = "heads"
	}

	public := fmt.Sprintf("https://github.com/%s/%s/archive/refs/%s/%s.tar.gz", owner, repo, kind, ref.Ref)
	codeload := fmt.Sprintf("https://codeload.github.com/%s/%s/tar.gz/refs/%s/%s", owner, repo, kind, ref.Ref)

	if hasToken {
		api := fmt.Sprintf("https://api.github.com/repos/%s/%s/tarball/%s", owner, repo, ref.Ref)
		return []string{api, public}
	}
	return []string{public, codeload}
}
