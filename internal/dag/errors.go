package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTaskReference is returned when a dependency or hook names a
	// task that is not defined.
	ErrUnknownTaskReference = errors.New("unknown task reference")
	// ErrCyclicDependency is returned when the dependency relation has a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")
)

// ReferenceError names the referencing task (or setting) and the missing task.
type ReferenceError struct {
	// Task is the task whose dependency list holds the reference. Empty when
	// the reference comes from a setting.
	Task string
	// Setting is the configuration key holding the reference, if any.
	Setting string
	Missing string
}

func (e *ReferenceError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("%s: setting %s references undefined task %q", ErrUnknownTaskReference, e.Setting, e.Missing)
	}
	return fmt.Sprintf("%s: task %q depends on undefined task %q", ErrUnknownTaskReference, e.Task, e.Missing)
}

func (e *ReferenceError) Unwrap() error { return ErrUnknownTaskReference }

// CycleError lists the members of a dependency cycle in the order they were
// encountered during traversal.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return ErrCyclicDependency.Error()
	}
	path := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }
