package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"pathboot/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

func (m AppModel) View() string {
	if m.Loading {
		return fmt.Sprintf("\n  %s Reading search path... please wait.\n", m.Spinner.View())
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press 'r' to retry or 'q' to quit.\n", m.Err)
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 4
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderList(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.renderDetails(rightWidth, interiorHeight))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.renderFooter(),
	)
}

func statusIcon(e model.PathEntry) string {
	switch {
	case e.IsDuplicate:
		return model.IconDuplicate
	case !e.Exists:
		return model.IconMissing
	case e.Scope == model.ScopeUser:
		return model.IconUser
	}
	return model.IconOK
}

func (m AppModel) renderList(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search Path Entries"))
	b.WriteString("\n\n")

	// Windowing: header takes 2 lines
	visibleItems := height - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - visibleItems/2
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	if len(m.FilteredIndices) == 0 {
		b.WriteString(dimStyle.Render("No entries."))
	}

	last := len(m.Result.PathEntries) - 1
	for i := startIdx; i < endIdx; i++ {
		idx := m.FilteredIndices[i]
		entry := m.Result.PathEntries[idx]

		line := fmt.Sprintf("%2d. %s %s", idx+1, statusIcon(entry), entry.Value)
		if entry.IsDuplicate {
			line += " (duplicate)"
		}
		if idx == 0 {
			line += " (highest priority " + model.IconPriorityHigh + ")"
		} else if idx == last {
			line += " (lowest priority " + model.IconPriorityLow + ")"
		}

		if width > 5 {
			line = ansi.Truncate(line, width-2, "...")
		}

		style := normalStyle
		if i == m.SelectedIdx {
			style = selectedStyle
		} else if entry.IsDuplicate {
			style = dimStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderDetails(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Details"))
	b.WriteString("\n")

	if len(m.FilteredIndices) == 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		b.WriteString("\nNo entries found.")
		return b.String()
	}

	idx := m.FilteredIndices[m.SelectedIdx]
	entry := m.Result.PathEntries[idx]

	fmt.Fprintf(&b, "\nDirectory:  %s", entry.Value)
	fmt.Fprintf(&b, "\nScope:      %s (position %d)", entry.Scope, entry.Position)
	if entry.Exists {
		b.WriteString("\nExists:     yes")
	} else {
		b.WriteString("\nExists:     no " + model.IconMissing)
	}

	if m.SearchActive {
		if name, ok := m.SearchMatches[idx]; ok {
			full := filepath.Join(entry.Value, name)
			b.WriteString("\n\n--- Found Executable ---")
			fmt.Fprintf(&b, "\nName:       %s", name)
			fmt.Fprintf(&b, "\nPath:       %s", full)
			if info, err := m.fs.Stat(full); err == nil {
				fmt.Fprintf(&b, "\nSize:       %d bytes", info.Size())
				fmt.Fprintf(&b, "\nModified:   %s", info.ModTime().Format("2006-01-02 15:04:05"))
			}
		}
	}

	if m.ShowDiagnostics {
		if len(entry.Diagnostics) == 0 {
			b.WriteString("\n\nNo issues detected.")
		}
		for _, d := range entry.Diagnostics {
			b.WriteString(adviceStyle.Render("\n\n! " + d))
		}
		if len(m.Result.Diagnostics) > 0 {
			b.WriteString("\n\n--- Overall ---")
			for _, d := range m.Result.Diagnostics {
				b.WriteString("\n" + d)
			}
		}
	} else if entry.IsDuplicate {
		b.WriteString("\n\n(duplicate " + model.IconDuplicate + ", press 'd' for details)")
	}

	lines := strings.Split(b.String(), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	if width > 4 {
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, width-1, "...")
		}
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) renderFooter() string {
	if m.InputMode {
		return "Find: " + m.InputBuffer.View()
	}
	help := "↑/↓ move • w find executable • d diagnostics • r reload • q quit"
	if m.SearchActive {
		help = fmt.Sprintf("Matches for %q • esc clear • ", m.InputBuffer.Value()) + help
	}
	return footerStyle.Render(help)
}
