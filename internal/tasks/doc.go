// Package tasks defines the task record, the ordered task list, and the pure
// transition function that applies commands to it.
//
// # Overview
//
// A task list is an ordered slice of Task records. Insertion order is display
// order and a task has no identity other than its position. The list is only
// ever changed by replacing it with the result of Apply:
//
//	list := tasks.List{}
//	list = tasks.Apply(list, tasks.Add{Title: "Buy milk"})
//	list = tasks.Apply(list, tasks.Toggle{Index: 0})
//	list = tasks.Apply(list, tasks.Delete{Index: 0})
//
// # Commands
//
//   - Add appends {Title, Completed: false}
//   - Toggle inverts Completed at an index
//   - Delete removes the record at an index and shifts later records down
//
// Out-of-range indexes and unrecognized commands return the input unchanged.
// Apply never performs I/O and never mutates its argument; persistence is the
// caller's job (see internal/persist and internal/session).
//
// # Actions
//
// Browsers post commands as JSON actions:
//
//	{"type": "ADD_TASK", "title": "Buy milk"}
//	{"type": "TOGGLE_TASK", "index": 0}
//	{"type": "DELETE_TASK", "index": 0}
//
// Action.Command converts an action into a Command. Unknown action types become
// Unknown, which Apply ignores.
package tasks
