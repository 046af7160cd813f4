package policies

import (
	"errors"
	"fmt"
)

// ErrInvariant is matched by every oracle consistency failure. It means the
// oracle and the task disagree about the scene and the episode must be discarded.
var ErrInvariant = errors.New("oracle invariant violated")

type InvariantError struct {
	Task   string
	Step   int
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s oracle at step %d: %s", e.Task, e.Step, e.Detail)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func invariant(task string, step int, format string, args ...interface{}) error {
	return &InvariantError{Task: task, Step: step, Detail: fmt.Sprintf(format, args...)}
}
