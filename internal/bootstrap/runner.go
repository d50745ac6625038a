// Package bootstrap provisions the tools of a plan: find each one, install
// it when missing, register its directory on the user search path and fetch
// the project archive.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"pathboot/internal/config"
	"pathboot/internal/model"
	"pathboot/internal/registrar"
)

// Summary is the outcome of a Run.
type Summary struct {
	Tools        []model.ToolOutcome `json:"tools"`
	View         string              `json:"view"`
	ProjectDest  string              `json:"projectDest,omitempty"`
	ProjectFiles int                 `json:"projectFiles,omitempty"`
}

// Degraded reports whether any tool could not be found.
func (s *Summary) Degraded() bool {
	for _, t := range s.Tools {
		if t.Degraded {
			return true
		}
	}
	return false
}

// Runner executes a plan step by step. Every step blocks.
type Runner struct {
	Fs         afero.Fs
	Registrar  *registrar.Registrar
	Downloader *Downloader
	Commands   CommandRunner
	Log        *slog.Logger

	// DryRun skips installers and the project download.
	DryRun bool
}

// Run provisions every tool in order, refreshes the process view once and
// then fetches the project archive, if any.
func (r *Runner) Run(ctx context.Context, plan *config.Plan) (*Summary, error) {
	if r.Log == nil {
		r.Log = slog.Default()
	}
	sum := &Summary{}
	for _, tool := range plan.Tools {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		out, err := r.provision(ctx, tool)
		sum.Tools = append(sum.Tools, out)
		if err != nil {
			return sum, err
		}
	}

	view, err := r.Registrar.Refresh()
	if err != nil {
		return sum, err
	}
	sum.View = view

	if plan.Project != nil && r.DryRun {
		r.Log.Info("would fetch project archive", "url", plan.Project.URL, "dest", plan.Project.Dest)
	} else if plan.Project != nil {
		n, err := r.fetchProject(ctx, plan.Project)
		if err != nil {
			return sum, err
		}
		sum.ProjectDest = plan.Project.Dest
		sum.ProjectFiles = n
	}
	return sum, nil
}

func fallbackFor(tool config.Tool) registrar.Fallback {
	if tool.Fallback == nil {
		return nil
	}
	return registrar.SuffixSearch{Root: tool.Fallback.Root, Suffix: tool.Fallback.Suffix}
}

func (r *Runner) provision(ctx context.Context, tool config.Tool) (model.ToolOutcome, error) {
	out := model.ToolOutcome{Name: tool.Name}
	log := r.Log.With("tool", tool.Name)
	loc := registrar.NewLocator(r.Fs, fallbackFor(tool))

	dir, err := loc.Find(tool.Candidates, tool.Marker)
	if registrar.IsNotFound(err) && tool.Installer != nil && r.DryRun {
		log.Info("not found, would install", "url", tool.Installer.URL, "args", tool.Installer.Args)
	} else if registrar.IsNotFound(err) && tool.Installer != nil {
		log.Info("not found, installing", "url", tool.Installer.URL)
		code, ierr := r.install(ctx, tool.Installer)
		if ierr != nil {
			return out, fmt.Errorf("installing %s: %w", tool.Name, ierr)
		}
		out.Installed = true
		out.ExitCode = &code
		if code != 0 {
			log.Warn("installer exited with non-zero status", "code", code)
		}
		dir, err = loc.Find(tool.Candidates, tool.Marker)
	}
	if registrar.IsNotFound(err) {
		log.Warn("tool unavailable, continuing without it", "err", err)
		out.Degraded = true
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("locating %s: %w", tool.Name, err)
	}

	log.Debug("found", "dir", dir)
	out.Directory = dir
	added, err := r.Registrar.Register(model.ScopeUser, dir)
	if err != nil {
		return out, err
	}
	out.Registered = added
	return out, nil
}

func (r *Runner) install(ctx context.Context, inst *config.Installer) (int, error) {
	tmp, err := afero.TempDir(r.Fs, "", "pathboot-")
	if err != nil {
		return -1, fmt.Errorf("creating temp dir: %w", err)
	}
	defer r.Fs.RemoveAll(tmp)

	file, err := r.Downloader.Fetch(ctx, inst.URL, tmp, "installer.exe")
	if err != nil {
		return -1, err
	}
	return r.Commands.Run(ctx, file, inst.Args)
}

func (r *Runner) fetchProject(ctx context.Context, p *config.Project) (int, error) {
	tmp, err := afero.TempDir(r.Fs, "", "pathboot-")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer r.Fs.RemoveAll(tmp)

	r.Log.Info("fetching project archive", "url", p.URL, "dest", p.Dest)
	archive, err := r.Downloader.Fetch(ctx, p.URL, tmp, "project.zip")
	if err != nil {
		return 0, fmt.Errorf("fetching project: %w", err)
	}
	n, err := ExtractZip(r.Fs, archive, p.Dest, p.Strip)
	if err != nil {
		return n, fmt.Errorf("extracting project: %w", err)
	}
	return n, nil
}
