package tui

import (
	"strings"

	"pathboot/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// MsgAnalysisReady carries a finished analysis.
type MsgAnalysisReady model.AnalysisResult

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case MsgAnalysisReady:
		m.Loading = false
		m.Err = nil
		m.Result = model.AnalysisResult(msg)
		m.performSearch()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.clearSearch()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
		case "d":
			m.ShowDiagnostics = !m.ShowDiagnostics
		case "r":
			m.Loading = true
			return m, tea.Batch(m.Spinner.Tick, LoadCmd(m.load))
		case "w":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.performSearch()
}

// performSearch filters entries down to directories holding an executable
// whose name starts with the search term.
func (m *AppModel) performSearch() {
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.SearchMatches = map[int]string{}

	if term == "" {
		m.SearchActive = false
		m.FilteredIndices = make([]int, len(m.Result.PathEntries))
		for i := range m.Result.PathEntries {
			m.FilteredIndices[i] = i
		}
	} else {
		m.SearchActive = true
		var result []int
		for i, entry := range m.Result.PathEntries {
			if entry.IsDuplicate || !entry.Exists {
				continue
			}
			files, err := afero.ReadDir(m.fs, entry.Value)
			if err != nil {
				continue
			}
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				if strings.HasPrefix(strings.ToLower(f.Name()), term) {
					m.SearchMatches[i] = f.Name()
					result = append(result, i)
					break
				}
			}
		}
		m.FilteredIndices = result
	}

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

// LoadCmd runs load in the background.
func LoadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		res, err := load()
		if err != nil {
			return MsgError(err)
		}
		return MsgAnalysisReady(res)
	}
}
