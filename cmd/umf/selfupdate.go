// ABOUTME: Self-update command that downloads the latest umf release build
// ABOUTME: Checksum-gated in-place replacement via go-update with rollback

package main

import (
	"context"
	"crypto"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/inconshreveable/go-update"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/download"
	"github.com/JINWOO-J/universal-makefile/internal/gitx"
	"github.com/JINWOO-J/universal-makefile/internal/release"
)

// runSelfUpdate replaces the running binary with the latest release build.
func runSelfUpdate(ctx context.Context, currentVersion string) error {
	fmt.Println("checking for updates...")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	cfg := config.New(cwd)

	dl := download.New(cfg.RetryMax, cfg.RetryDelay, cfg.Token, nil)
	res := release.NewResolver(cfg, dl, gitx.New())

	rel, err := res.LatestRelease(ctx)
	if err != nil {
		return fmt.Errorf("fetching latest release: %w", err)
	}
	if !release.Newer(rel.TagName, currentVersion) {
		fmt.Printf("already at latest version %s\n", currentVersion)
		return nil
	}
	fmt.Printf("updating %s -> %s\n", currentVersion, rel.TagName)

	assetName := fmt.Sprintf("umf_%s_%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		assetName += ".exe"
	}

	binURL, err := assetURL(rel, assetName)
	if err != nil {
		return fmt.Errorf("finding binary asset: %w", err)
	}
	sumURL, err := assetURL(rel, assetName+".sha256")
	if err != nil {
		return fmt.Errorf("finding checksum asset: %w", err)
	}

	sum, err := fetchChecksum(ctx, dl, sumURL)
	if err != nil {
		return fmt.Errorf("fetching checksum: %w", err)
	}
	checksum, err := hex.DecodeString(sum)
	if err != nil {
		return fmt.Errorf("decoding checksum %q: %w", sum, err)
	}

	tmp, err := os.CreateTemp("", "umf-update-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := dl.Fetch(ctx, binURL, tmpPath, nil); err != nil {
		return fmt.Errorf("downloading %s: %w", assetName, err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("opening downloaded binary: %w", err)
	}
	defer f.Close()

	err = update.Apply(f, update.Options{Checksum: checksum, Hash: crypto.SHA256})
	if err != nil {
		if rerr := update.RollbackError(err); rerr != nil {
			return fmt.Errorf("update failed and rollback failed, binary may be broken: %v (rollback: %v)", err, rerr)
		}
		return fmt.Errorf("applying update: %w", err)
	}

	fmt.Printf("updated to %s\n", rel.TagName)
	return nil
}

// assetURL finds a release asset by exact name.
func assetURL(rel *release.Release, name string) (string, error) {
	for _, a := range rel.Assets {
		if a.Name == name {
			return a.BrowserDownloadURL, nil
		}
	}
	return "", fmt.Errorf("asset %q not found in release %s", name, rel.TagName)
}

// fetchChecksum downloads a sidecar checksum file and returns the hex
// digest. Accepts both "<hash>  <filename>" and bare-hash formats.
func fetchChecksum(ctx context.Context, dl *download.Downloader, url string) (string, error) {
	body, err := dl.FetchString(ctx, url, nil)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(strings.TrimSpace(body))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file at %s", url)
	}
	return fields[0], nil
}
