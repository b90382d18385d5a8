// ABOUTME: SHA-256 verification of downloaded artifacts
// ABOUTME: Digest comes from the environment or a .sha256 sidecar; absence skips with a warning

package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// ErrMismatch reports a checksum that did not match the artifact.
var ErrMismatch = errors.New("checksum mismatch")

// Result says what Verify did with the artifact.
type Result int

const (
	// Skipped means no digest was available and the artifact was not checked.
	Skipped Result = iota
	// Verified means the artifact matched its digest.
	Verified
)

// Verify checks the file at path against a SHA-256 hex digest. A non-empty
// expected digest takes priority; otherwise a <path>.sha256 sidecar is
// consulted. With neither present the check is skipped with a warning. A
// mismatch returns ErrMismatch and the caller must not use the artifact.
func Verify(path, expected string) (Result, error) {
	want := strings.TrimSpace(expected)
	source := "environment"
	if want == "" {
		var err error
		want, err = readSidecar(path + ".sha256")
		if err != nil {
			return Skipped, fmt.Errorf("reading checksum sidecar: %w", err)
		}
		source = "sidecar"
	}
	if want == "" {
		log.Warn("no SHA-256 checksum available, skipping verification", "artifact", filepath.Base(path))
		return Skipped, nil
	}

	got, err := fileSHA256(path)
	if err != nil {
		return Skipped, fmt.Errorf("hashing %s: %w", path, err)
	}
	if !strings.EqualFold(got, want) {
		return Skipped, fmt.Errorf("%w for %s: expected %s, got %s", ErrMismatch, filepath.Base(path), want, got)
	}

	log.Info("checksum verified", "artifact", filepath.Base(path), "source", source)
	return Verified, nil
}

// readSidecar returns the digest from a checksum file, handling both the
// bare-hash and the "hash  filename" sha256sum formats. A missing file is
// not an error.
func readSidecar(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
