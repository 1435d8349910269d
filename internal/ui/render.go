// Package ui renders the task list for terminals.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/mschirtzinger/taskmgr/internal/session"
	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

// Renderer formats snapshots with lipgloss styles. With color disabled the
// output is plain ASCII.
type Renderer struct {
	lg *lipgloss.Renderer

	header  lipgloss.Style
	number  lipgloss.Style
	done    lipgloss.Style
	open    lipgloss.Style
	muted   lipgloss.Style
	cursor  lipgloss.Style
	counter lipgloss.Style
}

// New creates a Renderer writing to w. Color is used only when w is a
// terminal that supports it and noColor is false.
func New(w io.Writer, noColor bool) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if noColor || !IsTTY(w) {
		lg.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		lg:      lg,
		header:  lg.NewStyle().Bold(true),
		number:  lg.NewStyle().Foreground(lipgloss.Color("8")),
		done:    lg.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8")),
		open:    lg.NewStyle(),
		muted:   lg.NewStyle().Faint(true),
		cursor:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		counter: lg.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Header returns the "Welcome" line.
func (r *Renderer) Header(user string) string {
	return r.header.Render("Welcome, " + user)
}

// Task formats one line. n is the 1-based number shown to the user.
func (r *Renderer) Task(n int, t tasks.Task) string {
	mark, title := "[ ]", r.open.Render(t.Title)
	if t.Completed {
		mark, title = "[x]", r.done.Render(t.Title)
	}
	return fmt.Sprintf("%s  %s %s", r.number.Render(fmt.Sprintf("%4d", n)), mark, title)
}

// Tasks formats the list, one task per line, or "no tasks".
func (r *Renderer) Tasks(list tasks.List) string {
	return r.TasksWithCursor(list, -1)
}

// TasksWithCursor formats the list marking position cursor with ">".
// A negative cursor marks nothing and leaves no gutter.
func (r *Renderer) TasksWithCursor(list tasks.List, cursor int) string {
	if len(list) == 0 {
		return r.muted.Render("no tasks")
	}
	lines := make([]string, len(list))
	for i, t := range list {
		line := r.Task(i+1, t)
		if cursor >= 0 {
			if i == cursor {
				line = r.cursor.Render(">") + line
			} else {
				line = " " + line
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Counts formats the two counters.
func (r *Renderer) Counts(c tasks.Counts) string {
	return fmt.Sprintf("%s %s\n%s %s",
		"Total Tasks:", r.counter.Render(fmt.Sprint(c.Total)),
		"Completed Tasks:", r.counter.Render(fmt.Sprint(c.Completed)))
}

// Snapshot formats the header, the list and the counters.
func (r *Renderer) Snapshot(s session.Snapshot) string {
	var b strings.Builder
	b.WriteString(r.Header(s.User))
	b.WriteString("\n\n")
	b.WriteString(r.Tasks(s.Tasks))
	b.WriteString("\n\n")
	b.WriteString(r.Counts(s.Counts))
	b.WriteString("\n")
	return b.String()
}

// Muted renders secondary text such as key help.
func (r *Renderer) Muted(s string) string {
	return r.muted.Render(s)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
