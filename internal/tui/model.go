// Package tui is the interactive terminal front end: a prompt that feeds the
// command interpreter and a status line that follows the live checkout.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/terminal"
)

// SessionMsg carries a tracker transition into the update loop.
type SessionMsg checkout.Session

const banner = `Welcome to my portfolio terminal.
Type 'help' to see available commands. Tab completes, arrow keys recall.`

type Model struct {
	ctx     context.Context
	interp  *terminal.Interpreter
	input   textinput.Model
	session checkout.Session
	width   int
}

func New(ctx context.Context, interp *terminal.Interpreter, session checkout.Session) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "help"
	ti.PlaceholderStyle = hintStyle
	ti.TextStyle = textStyle
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		ctx:     ctx,
		interp:  interp,
		input:   ti,
		session: session,
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(prompt)-2, 10)
		return m, nil

	case SessionMsg:
		m.session = checkout.Session(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			raw := m.input.Value()
			m.input.Reset()
			m.interp.Submit(m.ctx, raw)
			return m, nil

		case tea.KeyTab:
			res := m.interp.CompleteTab(m.input.Value())
			m.setInput(res.Input)
			return m, nil

		case tea.KeyUp:
			if v, ok := m.interp.RecallPrevious(); ok {
				m.setInput(v)
			}
			return m, nil

		case tea.KeyDown:
			if v, ok := m.interp.RecallNext(); ok {
				m.setInput(v)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setInput(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

func (m Model) View() string {
	var b strings.Builder

	history := m.interp.History()
	if len(history) == 0 {
		b.WriteString(titleStyle.Render(banner) + "\n\n")
		b.WriteString(renderPayload(terminal.Help{Commands: m.interp.Commands()}) + "\n\n")
	}
	for _, e := range history {
		b.WriteString(renderEntry(e) + "\n")
	}

	b.WriteString(m.input.View() + "\n")
	if line := m.statusLine(); line != "" {
		b.WriteString(statusStyle.Width(m.width).Render(line))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.session.Status == "" || m.session.Status == checkout.StatusIdle {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 20)).Render("checkout " + renderSession(m.session))
}
