package bootstrap

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ExtractZip unpacks the archive at src into dest. With strip set, a single
// top-level directory shared by every entry is removed.
func ExtractZip(fs afero.Fs, src, dest string, strip bool) (int, error) {
	f, err := fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("reading archive: %w", err)
	}

	prefix := ""
	if strip {
		prefix = commonRoot(zr.File)
	}

	if err := fs.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}
	cleanDest := filepath.Clean(dest)

	written := 0
	for _, zf := range zr.File {
		name := strings.TrimPrefix(zf.Name, prefix)
		if name == "" {
			continue
		}
		target := filepath.Join(cleanDest, filepath.FromSlash(name))
		if target != cleanDest && !strings.HasPrefix(target, cleanDest+string(filepath.Separator)) {
			return written, fmt.Errorf("archive entry %q escapes destination", zf.Name)
		}

		if zf.FileInfo().IsDir() {
			if err := fs.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}
		if err := writeEntry(fs, zf, target); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func writeEntry(fs afero.Fs, zf *zip.File, target string) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("opening %s in archive: %w", zf.Name, err)
	}
	defer rc.Close()

	out, err := fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, zf.Mode().Perm()|0o600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extracting %s: %w", zf.Name, err)
	}
	return nil
}

// commonRoot returns "dir/" when every entry lives under the same top-level
// directory, otherwise "".
func commonRoot(files []*zip.File) string {
	root := ""
	for _, zf := range files {
		first, _, found := strings.Cut(zf.Name, "/")
		if !found {
			return ""
		}
		if root == "" {
			root = first
		} else if root != first {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	return root + "/"
}
