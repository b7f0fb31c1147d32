package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the number of lines used by the title, prompt and help bar.
const chromeHeight = 3

// replySeparator splits multi-line replies.
const replySeparator = "\r\n"

// Model is the Bubble Tea model for the interactive prompt.
// Commands run synchronously inside Update, so the Executor is never called
// concurrently.
type Model struct {
	exec       Executor
	input      textinput.Model
	viewport   viewport.Model
	help       help.Model
	keys       keyMap
	transcript []string
	history    []string
	historyIdx int // len(history) means "editing a new line".
	width      int
	height     int
	done       bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithPrompt sets the prompt shown before the input field.
func WithPrompt(prompt string) ModelOption {
	return func(m *Model) { m.input.Prompt = prompt }
}

// NewModel creates a Model that sends submitted lines to exec.
func NewModel(exec Executor, opts ...ModelOption) Model {
	in := textinput.New()
	in.Prompt = DefaultPrompt
	in.Placeholder = "help"
	in.Focus()

	m := Model{
		exec:     exec,
		input:    in,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 1)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Previous):
			m.recall(-1)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.recall(1)
			return m, nil
		case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the current input line and appends it with its reply to the
// transcript.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if isBlank(line) {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIdx = len(m.history)

	reply, quit := m.exec.Execute(line)
	m.transcript = append(m.transcript, echoStyle.Render(m.input.Prompt+line))
	for _, l := range strings.Split(reply, replySeparator) {
		m.transcript = append(m.transcript, replyStyle.Render(l))
	}
	m.syncViewport()

	if quit {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// recall moves through the command history by delta.
func (m *Model) recall(delta int) {
	idx := m.historyIdx + delta
	if idx < 0 || idx > len(m.history) {
		return
	}
	m.historyIdx = idx
	if idx == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[idx])
	m.input.CursorEnd()
}

func (m *Model) syncViewport() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// View renders the title, transcript, prompt and help bar. Once the session
// has ended only the transcript is rendered so it stays on screen.
func (m Model) View() string {
	if m.done {
		return strings.Join(m.transcript, "\n") + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(Welcome),
		m.viewport.View(),
		m.input.View(),
		m.help.View(m.keys),
	)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
