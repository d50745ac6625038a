package model

// Version is the pathboot release version.
const Version = "0.3.1"

// Scope is one of the two levels at which the search path is persisted.
type Scope string

const (
	ScopeMachine Scope = "machine"
	ScopeUser    Scope = "user"
)

// PathEntry represents a single directory in the merged search path.
type PathEntry struct {
	Value       string   // The directory as stored (e.g., C:\Program Files\Git\cmd)
	Scope       Scope    // Scope the entry was read from
	Position    int      // 1-based position inside its own scope
	Exists      bool     // Directory exists on disk
	IsDuplicate bool     // True if an earlier entry matches this one
	DuplicateOf int      // Index of the original entry if this is a duplicate
	Remediation string   // Advice on how to fix/remove if duplicate
	Diagnostics []string // Human-readable findings for this entry
}

// AnalysisResult contains the processed view of both scopes.
type AnalysisResult struct {
	Separator   string
	Machine     string
	User        string
	PathEntries []PathEntry
	Diagnostics []string
}

// ToolOutcome records what happened to a single tool during a bootstrap run.
type ToolOutcome struct {
	Name       string `json:"name"`
	Directory  string `json:"directory,omitempty"`
	Installed  bool   `json:"installed"`
	ExitCode   *int   `json:"exitCode,omitempty"`
	Registered bool   `json:"registered"`
	Degraded   bool   `json:"degraded"`
}
