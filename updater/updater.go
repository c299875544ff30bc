// Package updater checks for and installs new releases of the front-end.
//
// The update URL serves a small JSON manifest naming the latest version and
// a download per platform. Installing is done by the helper binary, which
// replaces the running executable while it is not running.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/user-none/yaffe/jobs"
)

// Version is the running version, set at link time with
// -ldflags "-X github.com/user-none/yaffe/updater.Version=1.2.3".
var Version = "0.0.0"

const (
	defaultTimeout = 30 * time.Second
	maxManifest    = 1 << 20
)

// ErrNoUpdateURL is returned by a check when no update URL is configured.
var ErrNoUpdateURL = errors.New("updater: no update URL configured")

// Manifest is the document served at the update URL.
type Manifest struct {
	Version string `json:"version"`
	// Downloads maps "<GOOS>-<GOARCH>" to the URL of the release binary.
	Downloads map[string]string `json:"downloads"`
}

// Download returns the release URL for the running platform.
func (m Manifest) Download() (string, bool) {
	u, ok := m.Downloads[runtime.GOOS+"-"+runtime.GOARCH]
	return u, ok && u != ""
}

// Available is the value of a finished jobs.CheckUpdates.
type Available struct {
	Current string
	Latest  string
	// URL is the download for this platform, empty when there is no newer
	// version or no build for this platform.
	URL string
}

// NeedsUpdating reports whether latest is a newer dotted version than
// current. Missing components count as zero and non-numeric components
// compare as zero.
func NeedsUpdating(current, latest string) bool {
	cur := parseVersion(current)
	lat := parseVersion(latest)
	for i := 0; i < max(len(cur), len(lat)); i++ {
		var c, l int
		if i < len(cur) {
			c = cur[i]
		}
		if i < len(lat) {
			l = lat[i]
		}
		if l != c {
			return l > c
		}
	}
	return false
}

func parseVersion(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		out[i] = n
	}
	return out
}

// Checker fetches the manifest and downloads releases.
type Checker struct {
	Current string

	mu     sync.Mutex
	url    string
	client *http.Client
}

// NewChecker creates a checker for the manifest at url.
func NewChecker(url string) *Checker {
	return &Checker{
		Current: Version,
		url:     url,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// SetURL replaces the manifest URL. Safe to call while a check runs.
func (c *Checker) SetURL(url string) {
	c.mu.Lock()
	c.url = url
	c.mu.Unlock()
}

func (c *Checker) manifestURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// Check fetches the manifest and compares it with the running version.
func (c *Checker) Check(ctx context.Context) (Available, error) {
	url := c.manifestURL()
	if url == "" {
		return Available{}, ErrNoUpdateURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Available{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Available{}, fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Available{}, fmt.Errorf("update check failed with status: %d", resp.StatusCode)
	}

	var m Manifest
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxManifest)).Decode(&m); err != nil {
		return Available{}, fmt.Errorf("failed to decode update manifest: %w", err)
	}

	out := Available{Current: c.Current, Latest: m.Version}
	if NeedsUpdating(c.Current, m.Version) {
		out.URL, _ = m.Download()
	}
	return out, nil
}

// Download fetches url into dest through a temp file.
func (c *Checker) Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download update: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update download failed with status: %d", resp.StatusCode)
	}

	tempPath := dest + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write update: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write update: %w", err)
	}
	if err := os.Rename(tempPath, dest); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename update: %w", err)
	}
	return nil
}

// HandleCheckUpdates is the jobs.Handler for jobs.KindCheckUpdates.
func (c *Checker) HandleCheckUpdates(ctx context.Context, job jobs.Job) (any, error) {
	if _, ok := job.(jobs.CheckUpdates); !ok {
		return nil, fmt.Errorf("unexpected job %s", job.Kind())
	}
	return c.Check(ctx)
}

// HandleDownloadURL is the jobs.Handler for jobs.KindDownloadURL. The value
// is the destination path.
func (c *Checker) HandleDownloadURL(ctx context.Context, job jobs.Job) (any, error) {
	j, ok := job.(jobs.DownloadURL)
	if !ok {
		return nil, fmt.Errorf("unexpected job %s", job.Kind())
	}
	if err := c.Download(ctx, j.URL, j.Dest); err != nil {
		return nil, err
	}
	return j.Dest, nil
}
