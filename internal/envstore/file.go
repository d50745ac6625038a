package envstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"pathboot/internal/model"
)

// fileDocument is the on-disk layout of a File store.
type fileDocument struct {
	Machine string `yaml:"machine"`
	User    string `yaml:"user"`
}

// File keeps both scopes in a YAML document. It stands in for the Windows
// registry on other platforms.
type File struct {
	fs   afero.Fs
	path string
	seed string
	sep  string
}

// NewFile returns a File store at path. machineSeed is reported as the
// machine scope until the document is first written.
func NewFile(fs afero.Fs, path, machineSeed string) *File {
	return &File{
		fs:   fs,
		path: path,
		seed: machineSeed,
		sep:  string(os.PathListSeparator),
	}
}

func (f *File) load() (fileDocument, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, os.ErrNotExist) {
		return fileDocument{Machine: f.seed}, nil
	}
	if err != nil {
		return fileDocument{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fileDocument{}, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) Lookup(scope model.Scope) (string, error) {
	if err := checkScope(scope); err != nil {
		return "", err
	}
	doc, err := f.load()
	if err != nil {
		return "", err
	}
	if scope == model.ScopeMachine {
		return doc.Machine, nil
	}
	return doc.User, nil
}

func (f *File) Save(scope model.Scope, value string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	doc, err := f.load()
	if err != nil {
		return err
	}
	if scope == model.ScopeMachine {
		doc.Machine = value
	} else {
		doc.User = value
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f.path, err)
	}
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.path, err)
	}
	if err := afero.WriteFile(f.fs, f.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Separator() string {
	return f.sep
}

// DefaultFilePath is where the File store lives for the current user.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".pathboot", "env.yaml")
	}
	return filepath.Join(dir, "pathboot", "env.yaml")
}
