// ABOUTME: Tarball fetch-and-extract pipeline with primary/mirror URL fallback
// ABOUTME: Validates before extracting; Replace swaps install dirs with rollback on failure

package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cp "github.com/otiai10/copy"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/download"
	"github.com/JINWOO-J/universal-makefile/internal/log"
	"github.com/JINWOO-J/universal-makefile/internal/release"
)

// Fetcher downloads and unpacks source tarballs for resolved refs.
type Fetcher struct {
	Owner    string
	Repo     string
	HasToken bool
	WorkDir  string

	DL *download.Downloader

	// CandidateURLs overrides the default URL builder when non-nil.
	CandidateURLs func(release.Ref) []string
}

// NewFetcher builds a Fetcher writing into workDir, which must live under
// the process temp root so cleanup is guaranteed.
func NewFetcher(cfg config.Config, dl *download.Downloader, workDir string) *Fetcher {
	return &Fetcher{
		Owner:    cfg.Owner,
		Repo:     cfg.Repo,
		HasToken: cfg.Token != "",
		WorkDir:  workDir,
		DL:       dl,
	}
}

func (f *Fetcher) candidates(ref release.Ref) []string {
	if f.CandidateURLs != nil {
		return f.CandidateURLs(ref)
	}
	return candidateURLs(f.Owner, f.Repo, ref, f.HasToken)
}

// Download fetches the tarball for ref, trying the primary URL then the
// mirror. It also makes a single best-effort attempt at a .sha256 sidecar
// published next to the archive. Returns the tarball path.
func (f *Fetcher) Download(ctx context.Context, ref release.Ref) (string, error) {
	urls := f.candidates(ref)
	dest := filepath.Join(f.WorkDir, fmt.Sprintf("%s-%s.tar.gz", f.Repo, refFileName(ref.Ref)))

	var tried []string
	var lastErr error
	for _, u := range urls {
		log.Debug("fetching archive", "url", u)
		if err := f.DL.Fetch(ctx, u, dest, nil); err != nil {
			tried = append(tried, u)
			lastErr = err
			log.Warn("archive download failed", "url", u, "error", err)
			continue
		}
		f.fetchSidecar(ctx, u, dest)
		return dest, nil
	}

	return "", fmt.Errorf("could not download archive for %s; URLs tried:\n  %s\nlast error: %w",
		ref.Ref, strings.Join(tried, "\n  "), lastErr)
}

// fetchSidecar tries once to download a published checksum file next to
// the tarball. Absence is normal and only logged at debug level.
func (f *Fetcher) fetchSidecar(ctx context.Context, url, dest string) {
	once := *f.DL
	once.RetryMax = 1
	sidecar := dest + ".sha256"
	if err := once.Fetch(ctx, url+".sha256", sidecar, nil); err != nil {
		log.Debug("no checksum sidecar published", "url", url+".sha256")
		_ = os.Remove(sidecar)
	}
}

// ExtractTop validates the tarball, unpacks it into a fresh directory under
// the work dir, and returns the absolute path of the archive's single
// top-level directory.
func (f *Fetcher) ExtractTop(tarPath string, ref release.Ref) (string, error) {
	listing, err := List(tarPath)
	if err != nil {
		return "", err
	}

	extractRoot, err := os.MkdirTemp(f.WorkDir, "extract-")
	if err != nil {
		return "", fmt.Errorf("creating extraction directory: %w", err)
	}
	if err := Extract(tarPath, extractRoot); err != nil {
		return "", err
	}

	top, err := topDir(extractRoot, f.Repo, ref.Ref, listing)
	if err != nil {
		return "", err
	}
	return filepath.Join(extractRoot, top), nil
}

// topDir finds the archive's top-level directory: the {repo}-{ref-without-v}
// convention first, then the first path segment of the listing.
func topDir(extractRoot, repo, ref string, listing []string) (string, error) {
	expected := repo + "-" + strings.TrimPrefix(ref, "v")
	if isDir(filepath.Join(extractRoot, expected)) {
		return expected, nil
	}

	for _, name := range listing {
		seg, _, _ := strings.Cut(strings.Trim(name, "/"), "/")
		if seg == "" || seg == "." {
			continue
		}
		if isDir(filepath.Join(extractRoot, seg)) {
			log.Debug("using top-level directory from archive listing", "dir", seg, "expected", expected)
			return seg, nil
		}
	}
	return "", fmt.Errorf("could not determine the archive's top-level directory (expected %s)", expected)
}

// Replace atomically swaps the tree at srcDir into installPath. Any
// previous tree is moved aside first and restored if the swap fails. When
// keepBackup is true the previous tree survives as a timestamped .bak
// sibling; the returned path names it, or is empty.
func Replace(srcDir, installPath string, keepBackup bool) (string, error) {
	if err := os.MkdirAll(filepath.Dir(installPath), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}

	backupPath := ""
	if _, err := os.Lstat(installPath); err == nil {
		backupPath = fmt.Sprintf("%s.bak.%d", installPath, time.Now().UnixNano())
		if err := os.Rename(installPath, backupPath); err != nil {
			return "", fmt.Errorf("moving previous install aside: %w", err)
		}
	}

	if err := moveDir(srcDir, installPath); err != nil {
		if backupPath != "" {
			if restoreErr := os.Rename(backupPath, installPath); restoreErr != nil {
				log.Error("could not restore previous install", "backup", backupPath, "error", restoreErr)
			}
		}
		return "", fmt.Errorf("installing new tree at %s: %w", installPath, err)
	}

	if backupPath != "" && !keepBackup {
		if err := os.RemoveAll(backupPath); err != nil {
			log.Warn("could not remove old install backup", "path", backupPath, "error", err)
		}
		backupPath = ""
	}
	if backupPath != "" {
		log.Info("previous install kept", "path", backupPath)
	}
	return backupPath, nil
}

// moveDir renames src to dst, falling back to copy+remove across devices.
func moveDir(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := cp.Copy(src, dst); err != nil {
		return fmt.Errorf("copying tree: %w", err)
	}
	return os.RemoveAll(src)
}

// refFileName makes a ref safe for use in a file name.
func refFileName(ref string) string {
	return strings.ReplaceAll(ref, "/", "-")
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
