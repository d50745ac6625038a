package analysis

import (
	"fmt"
	"strings"

	"pathboot/internal/model"
)

// GenerateReport renders result as plain text. verbose adds the raw scope
// values.
func GenerateReport(result model.AnalysisResult, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "pathboot %s search path report\n", model.Version)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	for i, e := range result.PathEntries {
		icon := model.IconOK
		switch {
		case e.IsDuplicate:
			icon = model.IconDuplicate
		case !e.Exists:
			icon = model.IconMissing
		case e.Scope == model.ScopeUser:
			icon = model.IconUser
		}
		fmt.Fprintf(&b, "%3d. %s [%-7s] %s\n", i+1, icon, e.Scope, e.Value)
		for _, d := range e.Diagnostics {
			fmt.Fprintf(&b, "          - %s\n", d)
		}
	}
	if len(result.PathEntries) == 0 {
		b.WriteString("  (search path is empty)\n")
	}

	b.WriteString("\nSummary\n-------\n")
	fmt.Fprintf(&b, "Entries: %d\n", len(result.PathEntries))
	if len(result.Diagnostics) == 0 {
		b.WriteString("No issues detected.\n")
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(&b, "! %s\n", d)
	}

	if verbose {
		b.WriteString("\nRaw values\n----------\n")
		fmt.Fprintf(&b, "Separator: %q\n", result.Separator)
		fmt.Fprintf(&b, "Machine:   %s\n", result.Machine)
		fmt.Fprintf(&b, "User:      %s\n", result.User)
	}

	return b.String()
}
