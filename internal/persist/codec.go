package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

// listSchemaJSON describes the stored value: an array of task records.
// Unknown properties are allowed so older binaries can read newer data.
const listSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "completed"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "completed": {"type": "boolean"}
    }
  }
}`

var listSchema = jsonschema.MustCompileString("tasks.schema.json", listSchemaJSON)

// Encode serializes the list. An empty or nil list encodes as [].
func Encode(list tasks.List) ([]byte, error) {
	if list == nil {
		list = tasks.List{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses and validates a stored list.
func Decode(data []byte) (tasks.List, error) {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data after value")
	}

	if err := listSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("stored tasks do not match schema: %w", err)
	}

	var list tasks.List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	if list == nil {
		list = tasks.List{}
	}
	return list, nil
}
