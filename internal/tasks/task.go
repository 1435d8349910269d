package tasks

import "fmt"

// Task is a single entry in the task list.
type Task struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Validate checks if the Task has valid field values.
func (t Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// List is the ordered task sequence. Position is the only identity a task has.
type List []Task

// Clone returns a copy of the list that shares no backing array with l.
// A nil list clones to an empty, non-nil list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// InRange reports whether i is a valid position in the list.
func (l List) InRange(i int) bool {
	return i >= 0 && i < len(l)
}

// Counts holds the derived counters shown under the list.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Stats recomputes the counters from the list.
func Stats(l List) Counts {
	c := Counts{Total: len(l)}
	for _, t := range l {
		if t.Completed {
			c.Completed++
		}
	}
	return c
}
