package tasks

// Action is the JSON envelope for a command.
type Action struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// Command converts the action into the Command it names.
// Unknown types, and toggles or deletes without an index, yield Unknown so
// that Apply leaves the list unchanged.
func (a Action) Command() Command {
	switch a.Type {
	case ActionAdd:
		return Add{Title: a.Title}
	case ActionToggle:
		if a.Index == nil {
			return Unknown{Type: a.Type}
		}
		return Toggle{Index: *a.Index}
	case ActionDelete:
		if a.Index == nil {
			return Unknown{Type: a.Type}
		}
		return Delete{Index: *a.Index}
	default:
		return Unknown{Type: a.Type}
	}
}
