// ABOUTME: One-line ref file helpers for pins, release markers, and version stamps
// ABOUTME: A missing file reads as empty, never as an error

package release

import (
	"fmt"
	"os"
	"strings"
)

// ReadRefFile returns the trimmed first line of a ref file, or "" when the
// file does not exist.
func ReadRefFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

// WriteRefFile writes ref as the single line of the file at path.
func WriteRefFile(path, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("refusing to write empty ref to %s", path)
	}
	return os.WriteFile(path, []byte(ref+"\n"), 0o644)
}
