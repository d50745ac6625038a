package bootstrap

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// Downloader fetches a URL into a file on fs.
type Downloader struct {
	Client    *http.Client
	Fs        afero.Fs
	UserAgent string
}

// Fetch downloads rawURL into dir and returns the file path. One attempt is
// made; a non-200 status is an error.
//
// The file is named after the Content-Disposition filename, else the last
// URL path element, else fallbackName. A name without an extension takes
// the extension of fallbackName so installers stay executable.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dir, fallbackName string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing download url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: status %d", rawURL, resp.StatusCode)
	}

	if err := d.Fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	dest := filepath.Join(dir, fileName(u, resp.Header.Get("Content-Disposition"), fallbackName))
	f, err := d.Fs.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("writing download: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing download: %w", err)
	}
	return dest, nil
}

func fileName(u *url.URL, disposition, fallbackName string) string {
	name := ""
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		name = filepath.Base(filepath.FromSlash(params["filename"]))
	}
	if !usableName(name) {
		name = path.Base(u.Path)
	}
	if !usableName(name) {
		return fallbackName
	}
	if filepath.Ext(name) == "" {
		name += filepath.Ext(fallbackName)
	}
	return name
}

func usableName(name string) bool {
	switch name {
	case "", ".", "..", "/", `\`:
		return false
	}
	return true
}
