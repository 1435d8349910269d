package tasks

// Command is a request to change the task list. Add, Toggle and Delete are the
// only commands Apply acts on; any other implementation is ignored.
type Command interface {
	// Name returns the action type the command corresponds to.
	Name() string
}

// Action type names, as posted by the browser.
const (
	ActionAdd    = "ADD_TASK"
	ActionToggle = "TOGGLE_TASK"
	ActionDelete = "DELETE_TASK"
)

// Add appends a new, not completed task.
// Callers must not dispatch an empty title.
type Add struct {
	Title string
}

// Toggle inverts the completed flag of the task at Index.
type Toggle struct {
	Index int
}

// Delete removes the task at Index.
type Delete struct {
	Index int
}

// Unknown carries an action type this version does not understand.
type Unknown struct {
	Type string
}

func (Add) Name() string       { return ActionAdd }
func (Toggle) Name() string    { return ActionToggle }
func (Delete) Name() string    { return ActionDelete }
func (u Unknown) Name() string { return u.Type }

// Apply returns the list that results from applying cmd to list.
//
// The input is never modified. Out-of-range indexes, nil and unrecognized
// commands return list unchanged.
func Apply(list List, cmd Command) List {
	switch c := cmd.(type) {
	case Add:
		next := make(List, len(list), len(list)+1)
		copy(next, list)
		return append(next, Task{Title: c.Title, Completed: false})

	case Toggle:
		if !list.InRange(c.Index) {
			return list
		}
		next := list.Clone()
		next[c.Index].Completed = !next[c.Index].Completed
		return next

	case Delete:
		if !list.InRange(c.Index) {
			return list
		}
		next := make(List, 0, len(list)-1)
		next = append(next, list[:c.Index]...)
		return append(next, list[c.Index+1:]...)

	default:
		return list
	}
}
