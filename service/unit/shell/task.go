package shell

import (
	"encoding/json"
	"fmt"
)

// Command is a structured shell task.
type Command struct {
	Line string `json:"line" yaml:"line"`
}

// Result is the reply for one command.
type Result struct {
	Command string `json:"command,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Status  int    `json:"status"`
}

// commandLine extracts the command line from a task payload.
func commandLine(task any) (string, error) {
	switch actual := task.(type) {
	case string:
		return actual, nil
	case Command:
		return actual.Line, nil
	case *Command:
		if actual == nil {
			return "", fmt.Errorf("nil command")
		}
		return actual.Line, nil
	case json.RawMessage:
		var line string
		if err := json.Unmarshal(actual, &line); err == nil {
			return line, nil
		}
		cmd := Command{}
		if err := json.Unmarshal(actual, &cmd); err != nil {
			return "", fmt.Errorf("invalid command %s: %w", actual, err)
		}
		return cmd.Line, nil
	default:
		return "", fmt.Errorf("unsupported task type %T", task)
	}
}
