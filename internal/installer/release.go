// ABOUTME: Release strategy resolving a ref and unpacking its tarball at the install path
// ABOUTME: Verify gates the swap; snapshots carry no version stamp; pins update only on confirmation

package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/JINWOO-J/universal-makefile/internal/archive"
	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/integrity"
	"github.com/JINWOO-J/universal-makefile/internal/log"
	"github.com/JINWOO-J/universal-makefile/internal/release"
)

type releaseStrategy struct{ m *Manager }

func (s *releaseStrategy) Name() Mechanism { return MechanismRelease }

// Check has nothing to verify: tarball handling is native and network
// problems surface as retryable download errors.
func (s *releaseStrategy) Check(ctx context.Context) error { return nil }

func (s *releaseStrategy) Install(ctx context.Context) error {
	ref, err := s.m.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	return s.installRef(ctx, ref)
}

// Update re-resolves honoring the pin. When a pin exists and a newer
// release is out, the pin only moves on --force, --yes, or an interactive
// confirmation; otherwise it stays and the pinned version is reinstalled.
func (s *releaseStrategy) Update(ctx context.Context) error {
	cfg := s.m.cfg
	ref, err := s.m.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	if cfg.RequestedRef == "" {
		if pin, _ := release.ReadRefFile(cfg.PinPath()); pin != "" {
			if latest, err := s.m.resolver.Latest(ctx); err == nil && release.Newer(latest, pin) {
				if s.takeLatest(pin, latest) {
					if err := release.WriteRefFile(cfg.PinPath(), latest); err != nil {
						return fmt.Errorf("rewriting version pin: %w", err)
					}
					log.Info("version pin updated", "from", pin, "to", latest)
					ref = release.Ref{Ref: latest}
				} else {
					log.Info("keeping pinned version", "pin", pin, "available", latest)
				}
			}
		}
	}

	return s.installRef(ctx, ref)
}

// takeLatest decides whether an update moves an existing pin forward.
func (s *releaseStrategy) takeLatest(pin, latest string) bool {
	if s.m.cfg.Force || s.m.cfg.Yes {
		return true
	}
	if s.m.prompt == nil {
		return false
	}
	q := fmt.Sprintf("Release %s is available but %s pins %s. Update the pin?", latest, config.PinFile, pin)
	return s.m.prompt.Confirm(q, false)
}

// installRef runs the download, verify, extract, swap pipeline for ref.
// A failed verification leaves any previous install untouched.
func (s *releaseStrategy) installRef(ctx context.Context, ref release.Ref) error {
	tarPath, err := s.m.fetcher.Download(ctx, ref)
	if err != nil {
		return err
	}
	if _, err := integrity.Verify(tarPath, s.m.cfg.ExpectedSHA256); err != nil {
		return err
	}
	top, err := s.m.fetcher.ExtractTop(tarPath, ref)
	if err != nil {
		return err
	}

	if _, err := archive.Replace(top, s.m.cfg.InstallPath(), s.m.cfg.Backup); err != nil {
		return err
	}

	if ref.IsSnapshot {
		// A branch snapshot is not a version; no stamp.
		if err := os.Remove(s.m.cfg.StampPath()); err != nil && !os.IsNotExist(err) {
			log.Warn("could not drop stale version stamp", "error", err)
		}
	} else {
		if err := release.WriteRefFile(s.m.cfg.StampPath(), ref.Ref); err != nil {
			return fmt.Errorf("writing version stamp: %w", err)
		}
	}
	if err := release.WriteRefFile(s.m.cfg.ReleaseMarkerPath(), ref.Ref); err != nil {
		log.Warn("could not record last release", "error", err)
	}

	log.Info("release installed", "ref", ref.String(), "path", s.m.cfg.InstallDir)
	return nil
}

func (s *releaseStrategy) Remove(ctx context.Context) error {
	return os.RemoveAll(s.m.cfg.InstallPath())
}
