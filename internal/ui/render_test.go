package ui

import (
	"bytes"
	"testing"

	"github.com/mschirtzinger/taskmgr/internal/session"
	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

func TestRenderer_PlainOutput(t *testing.T) {
	r := New(&bytes.Buffer{}, true)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"open task", r.Task(1, tasks.Task{Title: "Buy milk"}), "   1  [ ] Buy milk"},
		{"done task", r.Task(12, tasks.Task{Title: "Walk dog", Completed: true}), "  12  [x] Walk dog"},
		{"empty list", r.Tasks(nil), "no tasks"},
		{"header", r.Header("Ada"), "Welcome, Ada"},
		{"counts", r.Counts(tasks.Counts{Total: 5, Completed: 2}), "Total Tasks: 5\nCompleted Tasks: 2"},
		{
			"cursor",
			r.TasksWithCursor(tasks.List{{Title: "A"}, {Title: "B"}}, 1),
			"    1  [ ] A\n>   2  [ ] B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRenderer_Snapshot(t *testing.T) {
	r := New(&bytes.Buffer{}, true)
	snap := session.Snapshot{
		User:   "Ada",
		Tasks:  tasks.List{{Title: "A", Completed: true}, {Title: "B"}},
		Counts: tasks.Counts{Total: 2, Completed: 1},
	}

	want := "Welcome, Ada\n\n" +
		"   1  [x] A\n" +
		"   2  [ ] B\n\n" +
		"Total Tasks: 2\n" +
		"Completed Tasks: 1\n"
	if got := r.Snapshot(snap); got != want {
		t.Errorf("Snapshot() =\n%s\nwant\n%s", got, want)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
