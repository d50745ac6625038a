package registrar

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"pathboot/internal/pathlist"
)

// Fallback is a best-effort search run when no candidate matched.
type Fallback interface {
	Search(fs afero.Fs, marker string) (string, error)
}

// Locator finds the install directory of a tool by probing for a marker file.
type Locator struct {
	Fs       afero.Fs
	Fallback Fallback
}

// NewLocator returns a Locator over fs with an optional fallback.
func NewLocator(fs afero.Fs, fallback Fallback) *Locator {
	return &Locator{Fs: fs, Fallback: fallback}
}

// Locate returns the first candidate, in order, that contains marker.
func (l *Locator) Locate(candidates []string, marker string) (string, error) {
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if isFile(l.Fs, filepath.Join(dir, marker)) {
			return dir, nil
		}
	}
	return "", &NotFoundError{Marker: marker, Candidates: candidates}
}

// Find runs Locate and, if nothing matched, the fallback search.
func (l *Locator) Find(candidates []string, marker string) (string, error) {
	dir, err := l.Locate(candidates, marker)
	if err == nil || l.Fallback == nil {
		return dir, err
	}
	return l.Fallback.Search(l.Fs, marker)
}

func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SuffixSearch walks Root looking for marker inside a directory whose path
// ends with Suffix.
type SuffixSearch struct {
	Root   string
	Suffix string
}

func (s SuffixSearch) Search(fs afero.Fs, marker string) (string, error) {
	var found string
	err := afero.Walk(fs, s.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the search is best effort.
			return nil
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		if !pathlist.Equal(info.Name(), marker) {
			return nil
		}
		dir := filepath.Dir(path)
		if s.Suffix != "" && !pathlist.HasSuffix(dir, s.Suffix) {
			return nil
		}
		found = dir
		return filepath.SkipAll
	})
	if found != "" {
		return found, nil
	}
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return "", err
	}
	return "", &NotFoundError{Marker: marker, Candidates: []string{filepath.Join(s.Root, "**", s.Suffix)}}
}
