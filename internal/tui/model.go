package tui

import (
	"github.com/Veraticus/fraudwatch/internal/inference"
	"github.com/Veraticus/fraudwatch/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Focus identifies the widget receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusButton
)

const (
	inputPlaceholder = "e.g., -1.35, 1.25, ..., 86400, 59.99"
	minInputWidth    = 20
	// border (2) + padding (2) + prompt (2)
	inputChrome = 6
)

// Model holds the fraud terminal state.
type Model struct {
	theme    themes.Theme
	detector Detector
	result   *inference.Result
	keymap   KeyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	width    int
	height   int
	seq      int
	focus    Focus
	pending  bool
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		theme:    cfg.Theme,
		detector: cfg.Detector,
		keymap:   DefaultKeyMap(),
		help:     h,
		input:    input,
		spinner:  s,
		focus:    FocusInput,
	}
	m.resize(cfg.Width, cfg.Height)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case detectionResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.pending = false
		result := msg.result
		m.result = &result
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == FocusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Detect):
		return m, m.startDetection()

	case key.Matches(msg, m.keymap.NextFocus), key.Matches(msg, m.keymap.PrevFocus):
		return m, m.toggleFocus()

	case key.Matches(msg, m.keymap.Clear):
		m.result = nil
		m.pending = false
		m.seq++
		return m, nil

	case m.focus == FocusButton && key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.focus != FocusInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startDetection scores the current input in a command. Presses while a
// request is in flight are ignored.
func (m *Model) startDetection() tea.Cmd {
	if m.pending || m.detector == nil {
		return nil
	}
	m.pending = true
	m.seq++

	detector := m.detector
	input := m.input.Value()
	seq := m.seq
	detect := func() tea.Msg {
		return detectionResultMsg{result: detector.Handle(input), seq: seq}
	}
	return tea.Batch(m.spinner.Tick, detect)
}

// toggleFocus switches between the input and the button; with two widgets
// forward and backward are the same move.
func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == FocusInput {
		m.focus = FocusButton
		m.input.Blur()
		return nil
	}
	m.focus = FocusInput
	return m.input.Focus()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	w := width - inputChrome
	if w < minInputWidth {
		w = minInputWidth
	}
	m.input.Width = w
}
