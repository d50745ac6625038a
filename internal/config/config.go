// Package config loads the bootstrap plan: which tools to provision, where
// to look for them and which project archive to fetch.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Plan is the full bootstrap configuration.
type Plan struct {
	Tools   []Tool   `yaml:"tools"`
	Project *Project `yaml:"project,omitempty"`
}

// Tool describes one prerequisite and how to find or install it.
type Tool struct {
	Name       string     `yaml:"name"`
	Marker     string     `yaml:"marker"`
	Candidates []string   `yaml:"candidates"`
	Fallback   *Fallback  `yaml:"fallback,omitempty"`
	Installer  *Installer `yaml:"installer,omitempty"`
}

// Fallback configures the exhaustive search used when no candidate matched.
type Fallback struct {
	Root   string `yaml:"root"`
	Suffix string `yaml:"suffix"`
}

// Installer is downloaded and run when the tool cannot be found.
type Installer struct {
	URL  string   `yaml:"url"`
	Args []string `yaml:"args"`
}

// Project is an archive fetched after the tools are in place.
type Project struct {
	URL   string `yaml:"url"`
	Dest  string `yaml:"dest"`
	Strip bool   `yaml:"strip"`
}

// Load reads and validates a plan from path. Environment references are
// expanded with lookup.
func Load(fs afero.Fs, path string, lookup func(string) (string, bool)) (*Plan, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, lookup)
}

// Parse decodes a YAML plan.
func Parse(data []byte, lookup func(string) (string, bool)) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	p.expand(lookup)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every tool can be located.
func (p *Plan) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, t := range p.Tools {
		label := t.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Errorf("tool %s: name is required", label))
		} else if seen[strings.ToLower(t.Name)] {
			errs = append(errs, fmt.Errorf("tool %s: declared twice", label))
		}
		seen[strings.ToLower(t.Name)] = true

		if t.Marker == "" {
			errs = append(errs, fmt.Errorf("tool %s: marker is required", label))
		}
		if len(t.Candidates) == 0 && t.Fallback == nil {
			errs = append(errs, fmt.Errorf("tool %s: needs candidates or a fallback", label))
		}
		if t.Fallback != nil && t.Fallback.Root == "" {
			errs = append(errs, fmt.Errorf("tool %s: fallback root is required", label))
		}
		if t.Installer != nil && t.Installer.URL == "" {
			errs = append(errs, fmt.Errorf("tool %s: installer url is required", label))
		}
	}
	if p.Project != nil && (p.Project.URL == "" || p.Project.Dest == "") {
		errs = append(errs, errors.New("project: url and dest are required"))
	}
	return errors.Join(errs...)
}

var windowsVarRe = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

// Expand replaces %VAR% and $VAR references. Unknown %VAR% references are
// left untouched so the registry can still expand them later.
func Expand(s string, lookup func(string) (string, bool)) string {
	s = windowsVarRe.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := lookup(m[1 : len(m)-1]); ok {
			return v
		}
		return m
	})
	return os.Expand(s, func(name string) string {
		v, _ := lookup(name)
		return v
	})
}

func (p *Plan) expand(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for i := range p.Tools {
		t := &p.Tools[i]
		for j, c := range t.Candidates {
			t.Candidates[j] = Expand(c, lookup)
		}
		if t.Fallback != nil {
			t.Fallback.Root = Expand(t.Fallback.Root, lookup)
		}
	}
	if p.Project != nil {
		p.Project.Dest = Expand(p.Project.Dest, lookup)
	}
}
