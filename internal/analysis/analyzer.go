package analysis

import (
	"fmt"

	"github.com/spf13/afero"

	"pathboot/internal/envstore"
	"pathboot/internal/model"
	"pathboot/internal/pathlist"
)

// Analyzer turns the two persisted scopes into a list of annotated entries.
type Analyzer struct {
	fs afero.Fs
}

func NewAnalyzer(fs afero.Fs) *Analyzer {
	return &Analyzer{fs: fs}
}

// AnalyzeStore reads both scopes from store and analyzes them.
func (a *Analyzer) AnalyzeStore(store envstore.Store) (model.AnalysisResult, error) {
	machine, err := store.Lookup(model.ScopeMachine)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("reading machine search path: %w", err)
	}
	user, err := store.Lookup(model.ScopeUser)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("reading user search path: %w", err)
	}
	return a.Analyze(envstore.Expand(store, machine), envstore.Expand(store, user), store.Separator()), nil
}

// Analyze builds entries in effective order: machine scope first, then user.
func (a *Analyzer) Analyze(machine, user, sep string) model.AnalysisResult {
	var entries []model.PathEntry
	for _, scoped := range []struct {
		scope model.Scope
		value string
	}{
		{model.ScopeMachine, machine},
		{model.ScopeUser, user},
	} {
		for i, p := range pathlist.Split(scoped.value, sep) {
			entries = append(entries, model.PathEntry{
				Value:    p,
				Scope:    scoped.scope,
				Position: i + 1,
			})
		}
	}

	// Post-process for Duplicates
	seen := make(map[string]int) // normalized value -> index
	for i, e := range entries {
		key := pathlist.Normalize(e.Value)
		if firstIdx, ok := seen[key]; ok {
			entries[i].IsDuplicate = true
			entries[i].DuplicateOf = firstIdx

			first := entries[firstIdx]
			entries[i].Remediation = fmt.Sprintf(
				"Duplicate of entry %d (%s scope, position %d). Remove position %d from the %s scope.",
				firstIdx+1, first.Scope, first.Position, e.Position, e.Scope,
			)
			entries[i].Diagnostics = append(entries[i].Diagnostics, entries[i].Remediation)
		} else {
			seen[key] = i
		}
	}

	var diagnostics []string
	missing := 0
	for i := range entries {
		info, err := a.fs.Stat(entries[i].Value)
		entries[i].Exists = err == nil && info.IsDir()
		if !entries[i].Exists {
			missing++
			entries[i].Diagnostics = append(entries[i].Diagnostics, "Directory does not exist")
		}
	}

	dups := 0
	for _, e := range entries {
		if e.IsDuplicate {
			dups++
		}
	}
	if dups > 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("%d duplicate entries", dups))
	}
	if missing > 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("%d entries point at missing directories", missing))
	}

	return model.AnalysisResult{
		Separator:   sep,
		Machine:     machine,
		User:        user,
		PathEntries: entries,
		Diagnostics: diagnostics,
	}
}
