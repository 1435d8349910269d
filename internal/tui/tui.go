// Package tui provides the interactive terminal interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mschirtzinger/taskmgr/internal/session"
	"github.com/mschirtzinger/taskmgr/internal/ui"
)

const helpLine = "↑/k ↓/j move • space toggle • d delete • a add • r reload • q quit"

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, sess *session.Session, r *ui.Renderer) error {
	program := tea.NewProgram(New(ctx, sess, r), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Model is the bubbletea model over a Session.
type Model struct {
	ctx      context.Context
	sess     *session.Session
	renderer *ui.Renderer

	snap   session.Snapshot
	cursor int
	adding bool
	input  textinput.Model
	err    error
}

// New creates a Model showing the current session state.
func New(ctx context.Context, sess *session.Session, r *ui.Renderer) *Model {
	ti := textinput.New()
	ti.Placeholder = "Add new task"
	ti.CharLimit = 256
	ti.Prompt = "> "

	return &Model{
		ctx:      ctx,
		sess:     sess,
		renderer: r,
		snap:     sess.Snapshot(),
		input:    ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.adding {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.adding {
		return m.updateInput(keyMsg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Tasks)-1 {
			m.cursor++
		}
	case " ", "space", "enter":
		m.track(m.sess.Toggle(m.ctx, m.cursor))
	case "d", "x":
		m.track(m.sess.Delete(m.ctx, m.cursor))
	case "r":
		m.snap = m.sess.Reload(m.ctx)
		m.clampCursor()
	case "a":
		m.adding = true
		m.err = nil
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		title := m.input.Value()
		m.closeInput()
		if accepted, err := m.sess.Submit(m.ctx, title); accepted {
			m.track(err)
			m.cursor = len(m.snap.Tasks) - 1
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.input.Reset()
	m.input.Blur()
}

// track refreshes the snapshot after a command and records any save error.
func (m *Model) track(err error) {
	m.err = err
	m.snap = m.sess.Snapshot()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.snap.Tasks) {
		m.cursor = len(m.snap.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	r := m.renderer
	var b strings.Builder

	b.WriteString(r.Header(m.snap.User))
	b.WriteString("\n\n")

	cursor := m.cursor
	if m.adding {
		cursor = -1
	}
	b.WriteString(r.TasksWithCursor(m.snap.Tasks, cursor))
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(r.Muted("enter add • esc cancel"))
		b.WriteString("\n\n")
	}

	b.WriteString(r.Counts(m.snap.Counts))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("\nerror: %v\n", m.err))
	}
	if !m.adding {
		b.WriteString("\n")
		b.WriteString(r.Muted(helpLine))
		b.WriteString("\n")
	}
	return b.String()
}

// Snapshot returns the state the model is displaying.
func (m *Model) Snapshot() session.Snapshot {
	return m.snap
}

// Cursor returns the selected position.
func (m *Model) Cursor() int {
	return m.cursor
}

// Adding reports whether the add input is open.
func (m *Model) Adding() bool {
	return m.adding
}
