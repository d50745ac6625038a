package tui

import (
	"errors"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathboot/internal/model"
)

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		Separator: ";",
		PathEntries: []model.PathEntry{
			{Value: "/sys", Scope: model.ScopeMachine, Position: 1, Exists: true},
			{Value: "/git/cmd", Scope: model.ScopeUser, Position: 1, Exists: true},
			{Value: "/gone", Scope: model.ScopeUser, Position: 2, Diagnostics: []string{"Directory does not exist"}},
		},
	}
}

func ready(t *testing.T, fs afero.Fs) AppModel {
	t.Helper()
	m := InitialModel(fs, func() (model.AnalysisResult, error) { return sampleResult(), nil })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	next, _ = next.(AppModel).Update(MsgAnalysisReady(sampleResult()))
	return next.(AppModel)
}

func key(m AppModel, k string) AppModel {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func TestReadyPopulatesAllEntries(t *testing.T) {
	m := ready(t, afero.NewMemMapFs())
	assert.False(t, m.Loading)
	assert.Equal(t, []int{0, 1, 2}, m.FilteredIndices)
}

func TestNavigationStaysInBounds(t *testing.T) {
	m := ready(t, afero.NewMemMapFs())
	m = key(m, "k")
	assert.Equal(t, 0, m.SelectedIdx)
	m = key(key(key(key(m, "j"), "j"), "j"), "j")
	assert.Equal(t, 2, m.SelectedIdx)
}

func TestSearchFiltersByExecutablePrefix(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/git/cmd/git.exe", nil, 0o755))
	require.NoError(t, afero.WriteFile(fs, "/sys/notepad.exe", nil, 0o755))

	m := ready(t, fs)
	m = key(m, "w")
	require.True(t, m.InputMode)
	m = key(m, "gi")
	m = key(m, "enter")

	assert.True(t, m.SearchActive)
	assert.Equal(t, []int{1}, m.FilteredIndices)
	assert.Equal(t, "git.exe", m.SearchMatches[1])
	assert.Contains(t, m.View(), "git.exe")

	m = key(m, "esc")
	assert.False(t, m.SearchActive)
	assert.Len(t, m.FilteredIndices, 3)
}

func TestToggleDiagnostics(t *testing.T) {
	m := ready(t, afero.NewMemMapFs())
	m = key(key(m, "j"), "j")
	m = key(m, "d")
	assert.True(t, m.ShowDiagnostics)
	assert.Contains(t, m.View(), "Directory does not exist")
}

func TestErrorMessage(t *testing.T) {
	m := InitialModel(afero.NewMemMapFs(), nil)
	next, _ := m.Update(MsgError(errors.New("registry unavailable")))
	assert.Contains(t, next.(AppModel).View(), "registry unavailable")
}

func TestLoadCmd(t *testing.T) {
	msg := LoadCmd(func() (model.AnalysisResult, error) { return sampleResult(), nil })()
	res, ok := msg.(MsgAnalysisReady)
	require.True(t, ok)
	assert.Len(t, res.PathEntries, 3)

	msg = LoadCmd(func() (model.AnalysisResult, error) { return model.AnalysisResult{}, errors.New("boom") })()
	_, ok = msg.(MsgError)
	assert.True(t, ok)
}

func TestNarrowViewTruncatesOnRuneBoundaries(t *testing.T) {
	res := model.AnalysisResult{
		Separator: ";",
		PathEntries: []model.PathEntry{
			{Value: "/données/outils/très/longue/arborescence", Scope: model.ScopeMachine, Position: 1, Exists: true},
			{Value: "/données/outils/très/longue/arborescence", Scope: model.ScopeUser, Position: 1, IsDuplicate: true, DuplicateOf: 1},
		},
	}
	m := InitialModel(afero.NewMemMapFs(), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	next, _ = next.(AppModel).Update(MsgAnalysisReady(res))
	m = next.(AppModel)

	for _, width := range []int{50, 37, 41} {
		m.WindowSize.Width = width
		view := m.View()
		assert.True(t, utf8.ValidString(view), "width %d", width)
		assert.Contains(t, view, "...")
	}
}
