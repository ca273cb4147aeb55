// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"guitartuner/internal/tuner"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A5A5A")).
			Padding(0, 2)

	inTuneStyle  = panelStyle.BorderForeground(lipgloss.Color("#25A065"))
	offTuneStyle = panelStyle.BorderForeground(lipgloss.Color("#E0A030"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8A8A8A"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// Session is what the view needs from a tuner session.
type Session interface {
	HandleCommand(text string) tuner.Command
	Snapshot() tuner.State
}

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send command")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

type tickMsg time.Time

// Model renders the tuner display on a fixed tick and sends typed command
// text to the session.
type Model struct {
	session  Session
	interval time.Duration
	onTick   func(tuner.State)

	input    textinput.Model
	state    tuner.State
	feedback string
}

// NewModel returns a model refreshing every interval. onTick, if not nil,
// receives every refreshed state, e.g. to publish it.
func NewModel(session Session, interval time.Duration, onTick func(tuner.State)) Model {
	input := textinput.New()
	input.Placeholder = "tune to a"
	input.CharLimit = 64
	input.Width = 40
	input.Prompt = "> "
	input.Focus()

	return Model{
		session:  session,
		interval: interval,
		onTick:   onTick,
		input:    input,
		state:    session.Snapshot(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh tick and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), textinput.Blink)
}

// Update handles ticks and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.state = m.session.Snapshot()
		if m.onTick != nil {
			m.onTick(m.state)
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text != "" {
				cmd := m.session.HandleCommand(strings.ToLower(text))
				m.feedback = describe(text, cmd)
				m.state = m.session.Snapshot()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the display panel, the command box and help.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Guitar Tuner"))
	b.WriteString("\n\n")

	style := panelStyle
	if r := m.state.Reading; r != nil {
		if r.Cents > -5 && r.Cents < 5 {
			style = inTuneStyle
		} else {
			style = offTuneStyle
		}
	}
	b.WriteString(style.Render(tuner.FormatDisplay(m.state)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.feedback != "" {
		b.WriteString(highlightStyle.Render(m.feedback))
		b.WriteString("\n")
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("%s: %s • %s: %s",
		keys.Submit.Help().Key, keys.Submit.Help().Desc,
		keys.Quit.Help().Key, keys.Quit.Help().Desc)))
	b.WriteString("\n")

	return b.String()
}

func describe(text string, cmd tuner.Command) string {
	switch cmd.Kind {
	case tuner.SetTarget:
		return "Target set to " + cmd.Note
	case tuner.EnterTunerMode:
		return "Tuner mode"
	case tuner.ExitTunerMode:
		return "Chord mode"
	default:
		return fmt.Sprintf("Not a command: %q", text)
	}
}
