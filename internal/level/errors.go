package level

import "fmt"

// ToolError reports a backend that could not be queried or driven: the
// command failed to spawn, exited non-zero, or printed unparseable output.
type ToolError struct {
	Tool string
	Op   string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Tool, e.Op, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
