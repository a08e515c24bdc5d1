package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArguments is returned when a task requires more trailing
	// arguments than the invocation supplied.
	ErrMissingArguments = errors.New("missing required arguments")
	// ErrRender is returned when a task's templates cannot be rendered.
	ErrRender = errors.New("render failed")
	// ErrProcessSpawn is returned when an external program could not start.
	ErrProcessSpawn = errors.New("process spawn failure")
	// ErrNonZeroExit is returned when an external program exits with failure.
	ErrNonZeroExit = errors.New("non-zero exit")
	// ErrSkipped marks tasks that were never started.
	ErrSkipped = errors.New("skipped")
)

// RenderError attributes a rendering failure to a task. Err wraps either
// ErrMissingArguments or ErrRender.
type RenderError struct {
	Task string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("task %q: %v", e.Task, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SpawnError reports a program that could not be started.
type SpawnError struct {
	Task    string
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: task %q: %s: %v", ErrProcessSpawn, e.Task, e.Command, e.Err)
}

func (e *SpawnError) Unwrap() []error { return []error{ErrProcessSpawn, e.Err} }

// ExitStatusError reports a program that ran and returned a non-zero status.
type ExitStatusError struct {
	Task    string
	Command string
	Code    int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s: task %q: %s: exit status %d", ErrNonZeroExit, e.Task, e.Command, e.Code)
}

func (e *ExitStatusError) Unwrap() error { return ErrNonZeroExit }

// SkipError records why a task was not started. Upstream names the
// prerequisite that did not succeed; it is empty when the whole run stopped.
type SkipError struct {
	Task     string
	Upstream string
	Cause    error
}

func (e *SkipError) Error() string {
	if e.Upstream != "" {
		return fmt.Sprintf("%s: task %q: upstream task %q did not succeed", ErrSkipped, e.Task, e.Upstream)
	}
	return fmt.Sprintf("%s: task %q: %v", ErrSkipped, e.Task, e.Cause)
}

func (e *SkipError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSkipped}
	}
	return []error{ErrSkipped, e.Cause}
}
