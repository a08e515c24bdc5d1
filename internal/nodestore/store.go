// Package nodestore defines the per-run Execution Records of tasks.
//
// A store is created fresh for every run and discarded when the run ends, so
// nothing leaks between runs. It is owned by the run controller and threaded
// explicitly through the scheduler and executor.
//
// # State Transitions
//
//	Pending → Running → Succeeded | Failed
//	Pending → Failed   (the task could not be prepared, e.g. rendering failed)
//	Pending → Skipped  (an upstream task failed, or fail-fast stopped the run)
//
// Succeeded, Failed and Skipped are terminal. The Pending → Running claim is a
// compare-and-set, which is what guarantees at-most-once execution of a task
// that several branches depend on.
package nodestore

import (
	"context"
	"errors"
	"fmt"
)

// Status is the execution state of one task within a run.
type Status int32

const (
	Pending Status = iota
	Running
	Succeeded
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// ErrInvalidTransition is returned when a record is moved out of order.
var ErrInvalidTransition = errors.New("invalid execution record transition")

// TransitionError describes a rejected transition.
type TransitionError struct {
	Task string
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: task %q cannot move from %s to %s", ErrInvalidTransition, e.Task, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Store manages the Execution Records of one run.
//
// Implementations MUST be safe for concurrent use: workers claim and finish
// different tasks simultaneously.
type Store interface {
	// Status returns the current state of a task. Unknown tasks are Pending.
	Status(ctx context.Context, task string) Status

	// Claim atomically moves a task from Pending to Running and reports
	// whether this caller won. Exactly one caller wins per task per run.
	Claim(ctx context.Context, task string) bool

	// Succeed moves a Running task to Succeeded.
	Succeed(ctx context.Context, task string) error

	// Fail moves a Pending or Running task to Failed and records the cause.
	Fail(ctx context.Context, task string, cause error) error

	// Skip moves a Pending task to Skipped and records the reason. It
	// reports false if the task had already left Pending.
	Skip(ctx context.Context, task string, reason error) bool

	// Err returns the recorded failure cause or skip reason, if any.
	Err(ctx context.Context, task string) error
}
