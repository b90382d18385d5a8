// ABOUTME: Download transports sharing one fetch signature, tried in order
// ABOUTME: Native net/http first, then exec curl, then exec wget as fallbacks

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/schollz/progressbar/v3"
)

// 10s to connect, 300s for the whole transfer. The exec transports pass
// the same limits to curl and wget.
const (
	connectTimeout  = 10 * time.Second
	transferTimeout = 300 * time.Second
)

// statusError reports that the server responded with a non-2xx status.
// Distinguished from transport-level errors so the retry loop knows the
// server is reachable and switching transports would not help.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	if e.code == 0 {
		return "server returned an error status"
	}
	return fmt.Sprintf("server returned status %d", e.code)
}

// isStatusError reports whether err carries an HTTP status failure.
func isStatusError(err error) bool {
	var se *statusError
	return errors.As(err, &se)
}

// transport fetches a URL to a destination file.
type transport interface {
	Name() string
	Available() bool
	Fetch(ctx context.Context, url, dest string, hdr http.Header) error
}

// httpTransport downloads with the native net/http client.
type httpTransport struct {
	client   *http.Client
	progress io.Writer // nil disables the progress bar
}

func newHTTPTransport(progress io.Writer) *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Timeout: transferTimeout,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				Proxy:                 http.ProxyFromEnvironment,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				IdleConnTimeout:       30 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
		progress: progress,
	}
}

func (t *httpTransport) Name() string { return "http" }

func (t *httpTransport) Available() bool { return true }

func (t *httpTransport) Fetch(ctx context.Context, url, dest string, hdr http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
		return &statusError{code: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	var w io.Writer = out
	if t.progress != nil && resp.ContentLength > 0 {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(t.progress),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return out.Close()
}

// curlTransport shells out to curl. Tried when the native client cannot
// reach the server, since curl may have proxy or CA setup the Go client
// does not see.
type curlTransport struct{}

func (t *curlTransport) Name() string { return "curl" }

func (t *curlTransport) Available() bool {
	_, err := exec.LookPath("curl")
	return err == nil
}

func (t *curlTransport) Fetch(ctx context.Context, url, dest string, hdr http.Header) error {
	args := curlArgs(url, dest, hdr)
	cmd := exec.CommandContext(ctx, "curl", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		// curl -f exits 22 for HTTP errors >= 400.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 22 {
			return &statusError{}
		}
		return fmt.Errorf("curl: %w: %s", err, firstLine(out))
	}
	return nil
}

// curlArgs builds the argv after the binary name.
func curlArgs(url, dest string, hdr http.Header) []string {
	args := []string{
		"-fsSL",
		"--connect-timeout", fmt.Sprintf("%d", int(connectTimeout.Seconds())),
		"--max-time", fmt.Sprintf("%d", int(transferTimeout.Seconds())),
	}
	for k, vs := range hdr {
		for _, v := range vs {
			args = append(args, "-H", fmt.Sprintf("%s: %s", k, v))
		}
	}
	return append(args, "-o", dest, url)
}

// wgetTransport shells out to wget, the last resort.
type wgetTransport struct{}

func (t *wgetTransport) Name() string { return "wget" }

func (t *wgetTransport) Available() bool {
	_, err := exec.LookPath("wget")
	return err == nil
}

func (t *wgetTransport) Fetch(ctx context.Context, url, dest string, hdr http.Header) error {
	args := wgetArgs(url, dest, hdr)
	cmd := exec.CommandContext(ctx, "wget", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		// wget exits 8 on server-issued error responses.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 8 {
			return &statusError{}
		}
		return fmt.Errorf("wget: %w: %s", err, firstLine(out))
	}
	return nil
}

// wgetArgs builds the argv after the binary name.
func wgetArgs(url, dest string, hdr http.Header) []string {
	args := []string{
		"-q",
		fmt.Sprintf("--timeout=%d", int(transferTimeout.Seconds())),
	}
	for k, vs := range hdr {
		for _, v := range vs {
			args = append(args, fmt.Sprintf("--header=%s: %s", k, v))
		}
	}
	return append(args, "-O", dest, url)
}

// firstLine trims command output to its first line for error messages.
func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i])
		}
	}
	return string(out)
}
