package tui

import (
	"pathboot/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// Loader produces the analysis shown by the TUI.
type Loader func() (model.AnalysisResult, error)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Result  model.AnalysisResult
	Loading bool
	Err     error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowDiagnostics bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int          // Indices of PathEntries to show
	SearchMatches   map[int]string // Map of PathEntry Index -> Matched Filename
	SearchActive    bool

	// Components
	Spinner spinner.Model

	fs   afero.Fs
	load Loader
}

// InitialModel returns the initial state.
func InitialModel(fs afero.Fs, load Loader) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Executable name..."
	ti.CharLimit = 50
	ti.Width = 20

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppModel{
		Loading:     true,
		InputBuffer: ti,
		Spinner:     sp,
		fs:          fs,
		load:        load,
	}
}

// Init starts the spinner and the first load.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, LoadCmd(m.load))
}
