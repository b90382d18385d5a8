// ABOUTME: Release reference resolution: explicit ref, pin file, latest release, tag fallback
// ABOUTME: Queries the GitHub releases API first, then semver-sorts ls-remote tags, then snapshots

package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/download"
	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// ErrNoReleases means the repository has no releases and no semver tags.
var ErrNoReleases = errors.New("no releases found")

const defaultAPIBase = "https://api.github.com"

// Ref is a resolved install target: a tag, or a branch snapshot.
type Ref struct {
	Ref        string
	IsSnapshot bool
}

func (r Ref) String() string {
	if r.IsSnapshot {
		return r.Ref + " (snapshot)"
	}
	return r.Ref
}

// Release mirrors the fields of the GitHub releases API this tool reads.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a single downloadable release artifact.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// TagLister enumerates remote tag names. Implemented by gitx; faked in tests.
type TagLister interface {
	LsRemoteTags(ctx context.Context, remoteURL string) ([]string, error)
}

// Resolver determines which ref to install.
type Resolver struct {
	Owner         string
	Repo          string
	DefaultBranch string
	ExplicitRef   string
	PinPath       string
	RemoteURL     string
	APIBase       string

	DL   *download.Downloader
	Tags TagLister
}

// NewResolver builds a Resolver from the run configuration.
func NewResolver(cfg config.Config, dl *download.Downloader, tags TagLister) *Resolver {
	return &Resolver{
		Owner:         cfg.Owner,
		Repo:          cfg.Repo,
		DefaultBranch: cfg.Branch,
		ExplicitRef:   cfg.RequestedRef,
		PinPath:       cfg.PinPath(),
		RemoteURL:     cfg.RepoURL(),
		APIBase:       defaultAPIBase,
		DL:            dl,
		Tags:          tags,
	}
}

// Resolve returns the target ref. Precedence: explicit ref, pin file, latest
// remote release, default-branch snapshot. Only the last two touch the
// network.
func (r *Resolver) Resolve(ctx context.Context) (Ref, error) {
	if r.ExplicitRef != "" {
		log.Debug("using explicit ref", "ref", r.ExplicitRef)
		return Ref{Ref: r.ExplicitRef}, nil
	}

	pin, err := ReadRefFile(r.PinPath)
	if err != nil {
		return Ref{}, fmt.Errorf("reading pin file: %w", err)
	}
	if pin != "" {
		log.Debug("using pinned ref", "ref", pin, "pin", r.PinPath)
		return Ref{Ref: pin}, nil
	}

	tag, err := r.Latest(ctx)
	if err != nil {
		log.Warn("could not determine latest release, falling back to branch snapshot",
			"branch", r.DefaultBranch, "error", err)
		return Ref{Ref: r.DefaultBranch, IsSnapshot: true}, nil
	}
	return Ref{Ref: tag}, nil
}

// Latest returns the newest release tag. It asks the releases API first and
// degrades to enumerating remote tags sorted by semantic version.
func (r *Resolver) Latest(ctx context.Context) (string, error) {
	rel, apiErr := r.LatestRelease(ctx)
	if apiErr == nil && rel.TagName != "" {
		return rel.TagName, nil
	}
	log.Debug("release API lookup failed, trying tag enumeration", "error", apiErr)

	tags, tagErr := r.Tags.LsRemoteTags(ctx, r.RemoteURL)
	if tagErr != nil {
		return "", fmt.Errorf("latest release lookup failed (api: %v; ls-remote: %v)", apiErr, tagErr)
	}
	tag, err := semverLatest(tags)
	if err != nil {
		return "", err
	}
	return tag, nil
}

// LatestRelease fetches the full latest-release object from the API.
func (r *Resolver) LatestRelease(ctx context.Context) (*Release, error) {
	apiBase := r.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", apiBase, r.Owner, r.Repo)

	hdr := http.Header{}
	hdr.Set("Accept", "application/vnd.github.v3+json")

	body, err := r.DL.FetchString(ctx, url, hdr)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", url, err)
	}

	var rel Release
	if err := json.Unmarshal([]byte(body), &rel); err != nil {
		return nil, fmt.Errorf("decoding release response: %w", err)
	}
	if rel.TagName == "" {
		return nil, ErrNoReleases
	}
	return &rel, nil
}

// semverLatest picks the highest semantic version from tags. Tags that do
// not parse as semver are ignored.
func semverLatest(tags []string) (string, error) {
	var best *semver.Version
	var bestTag string
	for _, tag := range tags {
		v, err := semver.NewVersion(strings.TrimSpace(tag))
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestTag = strings.TrimSpace(tag)
		}
	}
	if best == nil {
		return "", ErrNoReleases
	}
	return bestTag, nil
}
