// ABOUTME: HTTP(S) downloader with bounded retries and exponential backoff
// ABOUTME: Attaches auth headers for GitHub hosts only; secrets never reach the logs

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/JINWOO-J/universal-makefile/internal/log"
)

// ErrExhausted marks a download that failed on every attempt.
var ErrExhausted = errors.New("all download attempts failed")

const userAgent = "universal-makefile-installer"

// Downloader fetches URLs to local files with retries. Zero value is not
// usable; construct with New.
type Downloader struct {
	RetryMax   int
	RetryDelay time.Duration
	Token      string

	transports []transport
	sleep      func(context.Context, time.Duration) error
}

// New returns a Downloader with the standard transport order: native HTTP
// client, then curl, then wget. progress may be nil to disable the byte
// progress bar (non-TTY runs and tests).
func New(retryMax int, retryDelay time.Duration, token string, progress io.Writer) *Downloader {
	return &Downloader{
		RetryMax:   retryMax,
		RetryDelay: retryDelay,
		Token:      token,
		transports: []transport{newHTTPTransport(progress), &curlTransport{}, &wgetTransport{}},
		sleep:      ctxSleep,
	}
}

// Fetch downloads url to dest, retrying up to RetryMax times with
// exponential backoff between attempts. hdr may be nil; auth and agent
// headers are added automatically. On failure no file is left at dest.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dest string, hdr http.Header) error {
	if rawURL == "" {
		return fmt.Errorf("download URL must not be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("download URL %q must be absolute http(s)", rawURL)
	}

	headers := d.buildHeaders(u, hdr)

	usable := make([]transport, 0, len(d.transports))
	for _, tr := range d.transports {
		if tr.Available() {
			usable = append(usable, tr)
		} else {
			log.Debug("transport unavailable", "transport", tr.Name())
		}
	}
	if len(usable) == 0 {
		return fmt.Errorf("no download transport available: install curl or wget")
	}

	current := 0
	var lastErr error
	for attempt := 1; attempt <= d.RetryMax; attempt++ {
		tr := usable[current]
		log.Debug("download attempt", "url", rawURL, "attempt", attempt, "transport", tr.Name(), "headers", redactHeaders(headers))

		err := d.attemptOnce(ctx, tr, rawURL, dest, headers)
		if err == nil {
			return nil
		}
		lastErr = err
		_ = os.Remove(dest)

		// A transport-level failure means the server was never reached;
		// let the next attempt use the next tool in line. A status error
		// means the server is fine and the tool is too, so stay put.
		if !isStatusError(err) && current < len(usable)-1 {
			current++
			log.Debug("switching transport", "next", usable[current].Name(), "cause", err)
		}

		if attempt == d.RetryMax {
			break
		}

		delay := backoffDelay(d.RetryDelay, attempt)
		log.Warn("download failed, retrying", "attempt", attempt, "of", d.RetryMax, "delay", delay, "error", err)
		if serr := d.sleep(ctx, delay); serr != nil {
			return fmt.Errorf("download interrupted: %w", serr)
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %w", ErrExhausted, rawURL, d.RetryMax, lastErr)
}

// FetchString downloads a small response body into memory, with the same
// retry and transport behavior as Fetch.
func (d *Downloader) FetchString(ctx context.Context, rawURL string, hdr http.Header) (string, error) {
	tmp, err := os.CreateTemp("", "umf-fetch-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := d.Fetch(ctx, rawURL, tmpPath, hdr); err != nil {
		return "", err
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(data), nil
}

// attemptOnce runs a single transport fetch and applies the empty-file
// check: a zero-byte result is a failure, whatever the transport said.
func (d *Downloader) attemptOnce(ctx context.Context, tr transport, url, dest string, hdr http.Header) error {
	if err := tr.Fetch(ctx, url, dest, hdr); err != nil {
		return err
	}
	fi, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("download produced no file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("download produced an empty file")
	}
	return nil
}

// buildHeaders merges caller headers with the defaults. The auth token is
// attached for GitHub-owned hosts only so it cannot leak to mirrors.
func (d *Downloader) buildHeaders(u *url.URL, extra http.Header) http.Header {
	h := http.Header{}
	for k, vs := range extra {
		h[k] = append([]string(nil), vs...)
	}
	if h.Get("User-Agent") == "" {
		h.Set("User-Agent", userAgent)
	}
	if d.Token != "" && isGitHubHost(u.Hostname()) {
		h.Set("Authorization", "Bearer "+d.Token)
	}
	return h
}

// isGitHubHost reports whether host is github.com or one of its subdomains.
func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || strings.HasSuffix(host, ".github.com")
}

// redactHeaders returns a loggable copy with secret values replaced.
func redactHeaders(h http.Header) http.Header {
	out := http.Header{}
	for k, vs := range h {
		if strings.EqualFold(k, "Authorization") {
			out[k] = []string{"<redacted>"}
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// backoffDelay returns base * 2^(attempt-1).
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// ctxSleep waits for d or until the context is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
