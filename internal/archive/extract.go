// ABOUTME: Hardened gzip-tar listing and extraction with traversal and bomb guards
// ABOUTME: Rejects absolute paths, dot-dot escapes, and symlinks pointing outside the root

package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// maxEntrySize caps a single extracted file to guard against
// decompression bombs.
const maxEntrySize = 1 << 30 // 1 GiB

// List walks the archive and returns every entry name. A listing that
// completes proves the file is a well-formed gzip tar.
func List(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s is not a gzip archive: %w", filepath.Base(path), err)
	}
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s is not a valid tar archive: %w", filepath.Base(path), err)
		}
		names = append(names, hdr.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("archive %s is empty", filepath.Base(path))
	}
	return names, nil
}

// Extract unpacks the archive into destDir. Entries escaping destDir,
// absolute names, and oversized files are rejected.
func Extract(path, destDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar: %w", err)
		}
		if err := extractEntry(tr, hdr, destDir); err != nil {
			return err
		}
	}
}

// extractEntry writes a single tar entry under destDir.
func extractEntry(tr *tar.Reader, hdr *tar.Header, destDir string) error {
	target, err := sanitizePath(hdr.Name, destDir)
	if err != nil {
		return err
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, dirMode(hdr))

	case tar.TypeReg:
		if hdr.Size > maxEntrySize {
			return fmt.Errorf("archive entry %s exceeds the size limit (%d bytes)", hdr.Name, hdr.Size)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", hdr.Name, err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode(hdr))
		if err != nil {
			return fmt.Errorf("creating %s: %w", hdr.Name, err)
		}
		if _, err := io.Copy(out, io.LimitReader(tr, maxEntrySize)); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", hdr.Name, err)
		}
		return out.Close()

	case tar.TypeSymlink:
		if err := validateLinkTarget(hdr, destDir); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", hdr.Name, err)
		}
		// Replace any stale link from a previous partial extraction.
		_ = os.Remove(target)
		return os.Symlink(hdr.Linkname, target)

	case tar.TypeXGlobalHeader, tar.TypeXHeader:
		return nil

	default:
		log.Debug("skipping unsupported archive entry", "name", hdr.Name, "type", hdr.Typeflag)
		return nil
	}
}

// sanitizePath resolves an entry name inside destDir, rejecting absolute
// names and parent-directory escapes.
func sanitizePath(name, destDir string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("archive entry %s has an absolute path", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %s escapes the extraction directory", name)
	}
	target := filepath.Join(destDir, clean)
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %s escapes the extraction directory", name)
	}
	return target, nil
}

// validateLinkTarget rejects symlinks that would point outside destDir
// once resolved from the link's own directory.
func validateLinkTarget(hdr *tar.Header, destDir string) error {
	if filepath.IsAbs(hdr.Linkname) {
		return fmt.Errorf("archive symlink %s has an absolute target %s", hdr.Name, hdr.Linkname)
	}
	linkDir := filepath.Dir(filepath.Join(destDir, filepath.Clean(hdr.Name)))
	resolved := filepath.Join(linkDir, hdr.Linkname)
	rel, err := filepath.Rel(destDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("archive symlink %s escapes the extraction directory (target %s)", hdr.Name, hdr.Linkname)
	}
	return nil
}

func fileMode(hdr *tar.Header) os.FileMode {
	mode := hdr.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	return mode
}

func dirMode(hdr *tar.Header) os.FileMode {
	mode := hdr.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0o755
	}
	return mode | 0o700
}
